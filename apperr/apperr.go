package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrPersistence     = errors.New("persistence unavailable")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("not logged in")
	ErrConflict        = errors.New("conflict")
)

// Error carries an HTTP status and a short machine code next to the cause.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Validation reports bad caller input. Nothing is mutated when it is returned.
func Validation(msg string) error {
	return New(http.StatusBadRequest, "validation", fmt.Errorf("%w: %s", ErrValidation, msg))
}

func Persistence(err error) error {
	return New(http.StatusInternalServerError, "persistence", fmt.Errorf("%w: %v", ErrPersistence, err))
}

func NotFound(what string) error {
	return New(http.StatusNotFound, "not_found", fmt.Errorf("%w: %s", ErrNotFound, what))
}

func Unauthenticated() error {
	return New(http.StatusUnauthorized, "unauthenticated", ErrUnauthenticated)
}

func Conflict(msg string) error {
	return New(http.StatusConflict, "conflict", fmt.Errorf("%w: %s", ErrConflict, msg))
}

// StatusOf maps an error to the HTTP status a handler should answer with.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
