// internal/registry/errors.go
package registry

import "errors"

var (
	ErrActivityNotFound   = errors.New("ACTIVITY_NOT_FOUND")
	ErrAlreadyRegistered  = errors.New("ALREADY_REGISTERED")
	ErrNotRegistered      = errors.New("NOT_REGISTERED")
	ErrInvalidParticipant = errors.New("INVALID_PARTICIPANT")
	ErrActivityFull       = errors.New("ACTIVITY_FULL")
	ErrInvalidSeed        = errors.New("INVALID_SEED")
)
