package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested aggregate does not exist or is not visible.
	ErrNotFound = errors.New("not found")
	// ErrConflict signals a uniqueness or state conflict (duplicate email, overlapping slot).
	ErrConflict = errors.New("conflict")
	// ErrForbidden is returned when the caller may not act on the aggregate.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized is returned for bad credentials or unusable tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrCapacityExceeded is returned when a slot has no remaining capacity.
	ErrCapacityExceeded = errors.New("slot is fully booked")
	// ErrInvalidTransition is returned for disallowed booking/payment status changes.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError describes a single invalid input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid builds a *ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
