// Package events carries roster changes out of the registry to external
// sinks once the change has been committed.
package events

import (
	"encoding/json"
	"time"

	"mergington-activities/internal/registry"

	"github.com/google/uuid"
)

// Type identifies the roster change.
type Type string

const (
	TypeSignUp     Type = "signup"
	TypeUnregister Type = "unregister"
)

// Event is a single committed roster change.
type Event struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	Activity    string    `json:"activity"`
	Participant string    `json:"participant"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// New builds an event for enrollment with a fresh id.
func New(t Type, enrollment registry.Enrollment) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        t,
		Activity:    enrollment.Activity,
		Participant: enrollment.Participant,
		OccurredAt:  time.Now().UTC(),
	}
}

func (e Event) payload() ([]byte, error) {
	return json.Marshal(e)
}
