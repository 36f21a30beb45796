// Package errors provides the service's structured error taxonomy and its
// mapping onto HTTP responses.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mergington-activities/internal/registry"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeActivityNotFound   ErrorCode = "ACTIVITY_NOT_FOUND"
	ErrCodeAlreadyRegistered  ErrorCode = "ALREADY_REGISTERED"
	ErrCodeNotRegistered      ErrorCode = "NOT_REGISTERED"
	ErrCodeActivityFull       ErrorCode = "ACTIVITY_FULL"
	ErrCodeInvalidParticipant ErrorCode = "INVALID_PARTICIPANT"

	ErrCodeEventPublishFailed ErrorCode = "EVENT_PUBLISH_FAILED"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// Constructors
// ==========================

// NewActivityNotFoundError reports an activity missing from the catalog.
func NewActivityNotFoundError(activityName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeActivityNotFound,
		Message:   "Activity not found",
		Details:   fmt.Sprintf("activity: %s", activityName),
		Timestamp: time.Now().UTC(),
	}
}

// NewAlreadyRegisteredError reports a duplicate signup.
func NewAlreadyRegisteredError(activityName, participant string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlreadyRegistered,
		Message:   "Student is already signed up",
		Details:   fmt.Sprintf("activity: %s, participant: %s", activityName, participant),
		Timestamp: time.Now().UTC(),
	}
}

// NewNotRegisteredError reports an unregister for a non-member.
func NewNotRegisteredError(activityName, participant string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotRegistered,
		Message:   "Student is not registered for this activity",
		Details:   fmt.Sprintf("activity: %s, participant: %s", activityName, participant),
		Timestamp: time.Now().UTC(),
	}
}

// NewActivityFullError reports a signup rejected by capacity enforcement.
func NewActivityFullError(activityName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeActivityFull,
		Message:   "Activity is full",
		Details:   fmt.Sprintf("activity: %s", activityName),
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidParticipantError reports a missing or empty participant identifier.
func NewInvalidParticipantError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidParticipant,
		Message:   "email query parameter is required",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewEventPublishFailedError wraps a sink delivery failure.
func NewEventPublishFailedError(sink string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEventPublishFailed,
		Message:   "Roster event delivery failed",
		Details:   fmt.Sprintf("sink: %s, error: %s", sink, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInternalError wraps anything unexpected.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal server error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// Conversion
// ==========================

// FromRegistryError converts a registry failure into a StandardError.
// Errors that are already StandardErrors pass through.
func FromRegistryError(activityName, participant string, err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	var out *StandardError
	switch {
	case stderrors.Is(err, registry.ErrActivityNotFound):
		out = NewActivityNotFoundError(activityName)
	case stderrors.Is(err, registry.ErrAlreadyRegistered):
		out = NewAlreadyRegisteredError(activityName, participant)
	case stderrors.Is(err, registry.ErrNotRegistered):
		out = NewNotRegisteredError(activityName, participant)
	case stderrors.Is(err, registry.ErrActivityFull):
		out = NewActivityFullError(activityName)
	case stderrors.Is(err, registry.ErrInvalidParticipant):
		out = NewInvalidParticipantError(err.Error())
	default:
		return NewInternalError(err)
	}
	out.cause = err
	return out
}

// HTTPStatus maps an error code to the status returned to API callers.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeActivityNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyRegistered, ErrCodeNotRegistered, ErrCodeActivityFull:
		return http.StatusBadRequest
	case ErrCodeInvalidParticipant:
		return http.StatusUnprocessableEntity
	case ErrCodeEventPublishFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError reports whether the code describes a caller mistake rather
// than a service fault.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatus(code)
	return status >= 400 && status < 500
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "REGISTERED") || strings.Contains(codeStr, "FULL"):
		return "ROSTER"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "CATALOG"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "EVENT"):
		return "EVENTS"
	default:
		return "OTHER"
	}
}
