// internal/events/email.go
package events

import (
	"context"
	"fmt"
	"net/mail"
)

type mailer interface {
	SendText(ctx context.Context, to, subject, body string) (string, error)
}

// EmailSink mails a confirmation to the participant. Participants that are
// not valid addresses are skipped.
type EmailSink struct {
	mailer mailer
}

func NewEmailSink(m mailer) *EmailSink {
	return &EmailSink{mailer: m}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Publish(ctx context.Context, evt Event) error {
	addr, err := mail.ParseAddress(evt.Participant)
	if err != nil {
		return nil
	}

	subject, body := confirmation(evt)
	_, err = s.mailer.SendText(ctx, addr.Address, subject, body)
	return err
}

func confirmation(evt Event) (subject, body string) {
	switch evt.Type {
	case TypeUnregister:
		subject = fmt.Sprintf("Unregistered from %s", evt.Activity)
		body = fmt.Sprintf("You have been unregistered from %s at Mergington High School.", evt.Activity)
	default:
		subject = fmt.Sprintf("Signed up for %s", evt.Activity)
		body = fmt.Sprintf("You are now signed up for %s at Mergington High School.", evt.Activity)
	}
	return subject, body
}
