package apperrors

import (
	"errors"
	"net/http"
	"testing"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrAuthenticationFailed, http.StatusUnauthorized},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrInvalidTransition, http.StatusConflict},
		{ErrNotFound, http.StatusNotFound},
		{ErrConflict, http.StatusConflict},
		{NewValidation("root_cause"), http.StatusBadRequest},
		{Wrap(ErrForbidden, "get scar"), http.StatusForbidden},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidation("containment_isolate", "root_cause")
	want := "missing required fields: containment_isolate, root_cause"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
