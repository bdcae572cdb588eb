package services

import (
	"errors"
	"fmt"
)

// Common service errors. Handlers map these onto HTTP status codes.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when attempting to create an entity
	// that already exists.
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSessionBusy is returned when an operation requires an idle
	// session but the worker is still running a task on it.
	ErrSessionBusy = errors.New("session is busy")

	// ErrNotCancellable is returned when cancellation is requested for a
	// session that has no queued or running turn.
	ErrNotCancellable = errors.New("session has no turn to cancel")
)

// ValidationError provides details about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

// Unwrap lets callers match any validation failure with
// errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
