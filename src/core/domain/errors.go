// Package domain holds the entities of the voting application and the
// errors use cases return when a business rule is violated.
// It depends on the standard library and google/uuid only.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a team, player, match, session or vote does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when a payload or ballot fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized is returned when the caller cannot be identified.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller is not allowed to act on the team.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict is returned when the request clashes with the current state,
	// e.g. a second vote in the same session or an illegal status transition.
	ErrConflict = errors.New("conflict")
)

// DomainError wraps one of the sentinel errors above with context.
type DomainError struct {
	// Base is the sentinel (ErrNotFound, ErrConflict, ...).
	Base error

	// Message is the human readable detail.
	Message string

	// Field names the offending input field for validation errors.
	Field string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s: %s (field: %s)", e.Base.Error(), e.Message, e.Field)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Base.Error(), e.Message)
	default:
		return e.Base.Error()
	}
}

// Unwrap returns the sentinel for errors.Is.
func (e *DomainError) Unwrap() error {
	return e.Base
}

func NewNotFoundError(resource string) *DomainError {
	return &DomainError{Base: ErrNotFound, Message: resource}
}

func NewValidationError(field, message string) *DomainError {
	return &DomainError{Base: ErrInvalidInput, Message: message, Field: field}
}

func NewConflictError(message string) *DomainError {
	return &DomainError{Base: ErrConflict, Message: message}
}

func NewForbiddenError(message string) *DomainError {
	return &DomainError{Base: ErrForbidden, Message: message}
}

func NewUnauthorizedError(message string) *DomainError {
	return &DomainError{Base: ErrUnauthorized, Message: message}
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidationError reports whether err wraps ErrInvalidInput.
func IsValidationError(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsConflict reports whether err wraps ErrConflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsForbidden reports whether err wraps ErrForbidden.
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }

// IsUnauthorized reports whether err wraps ErrUnauthorized.
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
