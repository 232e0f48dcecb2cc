package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrUsernameTaken          = errors.New("username already exists")
	ErrActiveAssignmentExists = errors.New("employee already has an active assignment")
	ErrUnknownClient          = errors.New("client does not exist")
)

// ValidationError reports a single rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err should be shown to the user as a form problem.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrActiveAssignmentExists) ||
		errors.Is(err, ErrUnknownClient)
}
