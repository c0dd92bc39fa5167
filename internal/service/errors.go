package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/volunteer-hours-api/internal/validation"
)

var (
	// ErrValidation marks bad input caught before any write
	ErrValidation = errors.New("validation failed")
	// ErrAuth marks bad credentials or an unusable session
	ErrAuth = errors.New("authentication failed")
	// ErrForbidden marks an authenticated actor lacking the required role or ownership
	ErrForbidden = errors.New("forbidden")
	// ErrConflict marks a uniqueness violation or a stale precondition
	ErrConflict = errors.New("conflict")
	// ErrInvalidState marks a transition attempted from a non-pending state
	ErrInvalidState = fmt.Errorf("%w: invalid state", ErrConflict)
	// ErrNotFound marks a missing or concurrently deleted entity
	ErrNotFound = errors.New("not found")
	// ErrStorage marks a blob upload or delete failure
	ErrStorage = errors.New("storage error")
)

// ValidationFailedError carries the field errors behind an ErrValidation
type ValidationFailedError struct {
	Errors []validation.ValidationError
}

func (e *ValidationFailedError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ve := range e.Errors {
		msgs = append(msgs, ve.Error())
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationFailedError) Unwrap() error {
	return ErrValidation
}

func invalid(errs []validation.ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationFailedError{Errors: errs}
}

func invalidField(field, message string, value interface{}) error {
	return invalid([]validation.ValidationError{{Field: field, Message: message, Value: value}})
}
