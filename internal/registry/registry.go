// internal/registry/registry.go

// Package registry owns the activity catalog and every roster mutation.
//
// The set of activities is fixed when the Registry is built, so the catalog
// map itself is never written after New returns. Each activity carries its
// own lock guarding its roster; operations on different activities never
// contend.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"mergington-activities/internal/common/logger"
)

type entry struct {
	mu              sync.RWMutex
	description     string
	schedule        string
	maxParticipants int
	participants    []string
}

// Registry is the single source of truth for activity data.
type Registry struct {
	activities      map[string]*entry
	enforceCapacity bool
	logger          logger.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithCapacityEnforcement makes SignUp reject participants once a roster
// reaches MaxParticipants. Off by default.
func WithCapacityEnforcement(enabled bool) Option {
	return func(r *Registry) {
		r.enforceCapacity = enabled
	}
}

// WithLogger attaches a logger for roster change debug output.
func WithLogger(log logger.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.logger = log.WithFields(map[string]interface{}{"component": "registry"})
		}
	}
}

// New builds a Registry from a seed catalog. The seed is copied; later
// changes to it are not observed.
func New(seed map[string]Activity, opts ...Option) (*Registry, error) {
	r := &Registry{
		activities: make(map[string]*entry, len(seed)),
		logger:     logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}

	for name, a := range seed {
		if name == "" {
			return nil, fmt.Errorf("%w: activity name is empty", ErrInvalidSeed)
		}
		if a.MaxParticipants <= 0 {
			return nil, fmt.Errorf("%w: activity %q has max_participants %d", ErrInvalidSeed, name, a.MaxParticipants)
		}

		seen := make(map[string]struct{}, len(a.Participants))
		for _, p := range a.Participants {
			if p == "" {
				return nil, fmt.Errorf("%w: activity %q has an empty participant", ErrInvalidSeed, name)
			}
			if _, dup := seen[p]; dup {
				return nil, fmt.Errorf("%w: activity %q lists %q twice", ErrInvalidSeed, name, p)
			}
			seen[p] = struct{}{}
		}

		participants := make([]string, len(a.Participants))
		copy(participants, a.Participants)
		r.activities[name] = &entry{
			description:     a.Description,
			schedule:        a.Schedule,
			maxParticipants: a.MaxParticipants,
			participants:    participants,
		}
	}

	return r, nil
}

// ListActivities returns a deep snapshot of the catalog.
func (r *Registry) ListActivities() map[string]Activity {
	out := make(map[string]Activity, len(r.activities))
	for name, e := range r.activities {
		out[name] = e.view()
	}
	return out
}

// Get returns a snapshot of one activity.
func (r *Registry) Get(activityName string) (Activity, error) {
	e, ok := r.activities[activityName]
	if !ok {
		return Activity{}, fmt.Errorf("%w: %s", ErrActivityNotFound, activityName)
	}
	return e.view(), nil
}

// Names returns the catalog's activity names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.activities))
	for name := range r.activities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsMember reports whether participantID is on the activity's roster.
func (r *Registry) IsMember(activityName, participantID string) (bool, error) {
	e, ok := r.activities[activityName]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrActivityNotFound, activityName)
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.indexOf(participantID) >= 0, nil
}

// SignUp appends participantID to the activity's roster.
func (r *Registry) SignUp(activityName, participantID string) (Enrollment, error) {
	e, ok := r.activities[activityName]
	if !ok {
		return Enrollment{}, fmt.Errorf("%w: %s", ErrActivityNotFound, activityName)
	}
	if participantID == "" {
		return Enrollment{}, fmt.Errorf("%w: participant identifier is empty", ErrInvalidParticipant)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.indexOf(participantID) >= 0 {
		return Enrollment{}, fmt.Errorf("%w: %s in %s", ErrAlreadyRegistered, participantID, activityName)
	}
	if r.enforceCapacity && len(e.participants) >= e.maxParticipants {
		return Enrollment{}, fmt.Errorf("%w: %s has %d of %d places taken",
			ErrActivityFull, activityName, len(e.participants), e.maxParticipants)
	}

	e.participants = append(e.participants, participantID)

	r.logger.Debug("participant signed up", map[string]interface{}{
		"activity":    activityName,
		"participant": participantID,
		"rosterSize":  len(e.participants),
	})

	return Enrollment{Activity: activityName, Participant: participantID}, nil
}

// Unregister removes participantID from the activity's roster.
func (r *Registry) Unregister(activityName, participantID string) (Enrollment, error) {
	e, ok := r.activities[activityName]
	if !ok {
		return Enrollment{}, fmt.Errorf("%w: %s", ErrActivityNotFound, activityName)
	}
	if participantID == "" {
		return Enrollment{}, fmt.Errorf("%w: participant identifier is empty", ErrInvalidParticipant)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(participantID)
	if idx < 0 {
		return Enrollment{}, fmt.Errorf("%w: %s in %s", ErrNotRegistered, participantID, activityName)
	}

	e.participants = append(e.participants[:idx], e.participants[idx+1:]...)

	r.logger.Debug("participant unregistered", map[string]interface{}{
		"activity":    activityName,
		"participant": participantID,
		"rosterSize":  len(e.participants),
	})

	return Enrollment{Activity: activityName, Participant: participantID}, nil
}

func (e *entry) view() Activity {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Activity{
		Description:     e.description,
		Schedule:        e.schedule,
		MaxParticipants: e.maxParticipants,
		Participants:    e.participants,
	}.clone()
}

// indexOf must be called with e.mu held.
func (e *entry) indexOf(participantID string) int {
	for i, p := range e.participants {
		if p == participantID {
			return i
		}
	}
	return -1
}
