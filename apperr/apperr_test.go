package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestValidationIsMatchable(t *testing.T) {
	err := fmt.Errorf("submit: %w", Validation("content is empty"))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected errors.Is(err, ErrValidation)")
	}
	if got := StatusOf(err); got != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", got)
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"persistence", Persistence(errors.New("disk full")), http.StatusInternalServerError},
		{"not found", NotFound("task"), http.StatusNotFound},
		{"unauthenticated", Unauthenticated(), http.StatusUnauthorized},
		{"conflict", Conflict("already submitted"), http.StatusConflict},
		{"bare sentinel", ErrNotFound, http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.err); got != tt.want {
				t.Fatalf("expected %d got %d", tt.want, got)
			}
		})
	}
}

func TestNilErrorString(t *testing.T) {
	var e *Error
	if e.Error() != "" {
		t.Fatalf("expected empty string for nil error")
	}
}
