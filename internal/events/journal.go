// internal/events/journal.go
package events

import (
	"context"
	"database/sql"
	"fmt"
)

const createJournalTable = `
CREATE TABLE IF NOT EXISTS roster_events (
	id          UUID PRIMARY KEY,
	event_type  TEXT NOT NULL,
	activity    TEXT NOT NULL,
	participant TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL
)`

const insertJournalEvent = `
INSERT INTO roster_events (id, event_type, activity, participant, occurred_at)
VALUES ($1, $2, $3, $4, $5)`

const selectJournalHistory = `
SELECT id, event_type, activity, participant, occurred_at
FROM roster_events
WHERE activity = $1
ORDER BY occurred_at, id`

// JournalSink appends events to a Postgres audit table.
type JournalSink struct {
	db *sql.DB
}

func NewJournalSink(db *sql.DB) *JournalSink {
	return &JournalSink{db: db}
}

func (s *JournalSink) Name() string { return "journal" }

// EnsureSchema creates the audit table if it does not exist.
func (s *JournalSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createJournalTable); err != nil {
		return fmt.Errorf("create roster_events: %w", err)
	}
	return nil
}

func (s *JournalSink) Publish(ctx context.Context, evt Event) error {
	_, err := s.db.ExecContext(ctx, insertJournalEvent,
		evt.ID, string(evt.Type), evt.Activity, evt.Participant, evt.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert roster event: %w", err)
	}
	return nil
}

// History returns the recorded events for activity in commit order.
func (s *JournalSink) History(ctx context.Context, activity string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, selectJournalHistory, activity)
	if err != nil {
		return nil, fmt.Errorf("query roster events: %w", err)
	}
	defer rows.Close()

	var history []Event
	for rows.Next() {
		var evt Event
		var t string
		if err := rows.Scan(&evt.ID, &t, &evt.Activity, &evt.Participant, &evt.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan roster event: %w", err)
		}
		evt.Type = Type(t)
		history = append(history, evt)
	}
	return history, rows.Err()
}
