// internal/events/sns.go
package events

import (
	"context"
	"fmt"
)

type topicPublisher interface {
	Publish(ctx context.Context, message string, attrs map[string]string) (string, error)
}

// SNSSink forwards events to an SNS topic with filterable attributes.
type SNSSink struct {
	topic topicPublisher
}

func NewSNSSink(topic topicPublisher) *SNSSink {
	return &SNSSink{topic: topic}
}

func (s *SNSSink) Name() string { return "sns" }

func (s *SNSSink) Publish(ctx context.Context, evt Event) error {
	payload, err := evt.payload()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = s.topic.Publish(ctx, string(payload), map[string]string{
		"event_type": string(evt.Type),
		"activity":   evt.Activity,
	})
	return err
}
