// internal/events/dispatcher.go
package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	apperrors "mergington-activities/internal/common/errors"
	"mergington-activities/internal/common/logger"
	"mergington-activities/internal/common/metrics"

	"golang.org/x/sync/errgroup"
)

// Sink delivers events to one external system.
type Sink interface {
	Name() string
	Publish(ctx context.Context, evt Event) error
}

// Publisher is what request handlers depend on.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Dispatcher fans an event out to every sink concurrently. A failing sink
// never blocks or fails the others.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
	logger  logger.Logger
}

// NewDispatcher returns a dispatcher over sinks. A zero timeout means the
// caller's context deadline alone applies.
func NewDispatcher(log logger.Logger, timeout time.Duration, sinks ...Sink) *Dispatcher {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Dispatcher{
		sinks:   sinks,
		timeout: timeout,
		logger:  log.WithFields(map[string]interface{}{"component": "events"}),
	}
}

// Nop returns a dispatcher with no sinks.
func Nop() *Dispatcher {
	return NewDispatcher(nil, 0)
}

// Sinks returns the configured sink names.
func (d *Dispatcher) Sinks() []string {
	names := make([]string, len(d.sinks))
	for i, s := range d.sinks {
		names[i] = s.Name()
	}
	return names
}

// Publish delivers evt to all sinks and returns the joined sink errors, each
// an EVENT_PUBLISH_FAILED StandardError wrapping the sink's own error.
// Cancellation of ctx does not abort delivery; only the dispatcher timeout does.
func (d *Dispatcher) Publish(ctx context.Context, evt Event) error {
	if len(d.sinks) == 0 {
		return nil
	}

	ctx = context.WithoutCancel(ctx)
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	errs := make([]error, len(d.sinks))
	var g errgroup.Group
	for i, sink := range d.sinks {
		g.Go(func() error {
			errs[i] = d.deliver(ctx, sink, evt)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func (d *Dispatcher) deliver(ctx context.Context, sink Sink, evt Event) error {
	start := time.Now()
	err := sink.Publish(ctx, evt)
	metrics.EventPublishDuration.WithLabelValues(sink.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.EventsFailed.WithLabelValues(sink.Name()).Inc()
		stdErr := apperrors.NewEventPublishFailedError(sink.Name(), err)
		d.logger.WithError(err).Error(stdErr.Message, map[string]interface{}{
			"sink":      sink.Name(),
			"eventId":   evt.ID,
			"type":      string(evt.Type),
			"activity":  evt.Activity,
			"errorCode": string(stdErr.Code),
			"retryable": stdErr.Retryable,
		})
		return stdErr
	}

	metrics.EventsPublished.WithLabelValues(sink.Name()).Inc()
	d.logger.Debug("Roster event delivered", map[string]interface{}{
		"sink":    sink.Name(),
		"eventId": evt.ID,
	})
	return nil
}

// Close closes every sink that holds a connection.
func (d *Dispatcher) Close() error {
	var errs []error
	for _, s := range d.sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", s.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}
