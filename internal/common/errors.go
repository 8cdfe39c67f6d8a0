// Package common defines shared constants and sentinel errors used across
// client and server layers of Messagely. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// ErrorUnauthenticated means no valid identity could be established:
	// bad credentials, or a missing/unverifiable token.
	ErrorUnauthenticated = errors.New("unauthenticated")

	// ErrorForbidden means the identity is valid but may not act on the
	// target resource.
	ErrorForbidden = errors.New("forbidden")

	// Validation errors. Concrete failures are reported as *ValidationError,
	// which matches ErrorValidation with errors.Is.
	ErrorValidation = errors.New("validation error")

	// Auth errors (invalid, expired or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError describes a malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is reports ErrorValidation as a match so callers can use errors.Is.
func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}

// NewValidationError returns a *ValidationError for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
