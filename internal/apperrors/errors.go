package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Workflow error taxonomy. Controllers translate these to HTTP statuses with
// StatusFor; everything here is recoverable at the request boundary.
var (
	// ErrAuthenticationFailed is returned for any login failure. The message
	// never distinguishes unknown email, bad password or unapproved status.
	ErrAuthenticationFailed = errors.New("invalid email or password")

	// ErrUnauthorized means the account is not approved for access.
	ErrUnauthorized = errors.New("account is not approved")

	// ErrForbidden means the actor's role or vendor does not permit the action.
	ErrForbidden = errors.New("you do not have access to this resource")

	// ErrInvalidTransition means the requested action is not defined for the
	// SCAR's current status.
	ErrInvalidTransition = errors.New("action not allowed in current status")

	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// ValidationError names the required fields a request is missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// NewValidation builds a ValidationError for the given field names.
func NewValidation(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// StatusFor maps a workflow error to its HTTP status. Unrecognized errors are
// treated as internal.
func StatusFor(err error) int {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.As(err, &ve):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Wrap annotates err with context while keeping it matchable via errors.Is.
func Wrap(err error, context string) error {
	return fmt.Errorf("%s: %w", context, err)
}
