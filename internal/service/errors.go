// Package service provides business logic for the application.
package service

import (
	"errors"
	"strings"

	"github.com/shelfmark/shelfmark/internal/validate"
)

// Service errors.
var (
	// ErrInvalidCredentials covers both unknown email and wrong
	// password. The two cases are deliberately indistinguishable so
	// callers cannot probe which emails are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken indicates a registration conflict on the
	// normalized email.
	ErrEmailTaken = errors.New("user already exists with this email")
	// ErrUserNotFound indicates the caller's account record is gone.
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError carries every violated field rule for a request.
type ValidationError struct {
	Fields []validate.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
