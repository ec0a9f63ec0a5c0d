// Package apperr holds the failure kinds the core reports to its callers.
// The presentation layer decides how each kind is rendered.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a referenced group, post or user that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden reports an actor mutating a resource it does not own.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated reports an anonymous actor attempting a mutation.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrConflict reports a uniqueness violation, e.g. a duplicate group slug.
	ErrConflict = errors.New("conflict")
)

// ValidationError flags a single offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid returns a ValidationError for field.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AsValidation unwraps err into a ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
