// Package apperrors centralizes the error taxonomy so services stay free of
// HTTP concerns and handlers map errors in one place.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrValidation  = errors.New("invalid request")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrForbidden   = errors.New("forbidden")
	ErrRateLimited = errors.New("too many requests")
)

type appError struct {
	kind error
	msg  string
}

func (e *appError) Error() string { return e.msg }
func (e *appError) Unwrap() error { return e.kind }

// Wrap attaches a taxonomy kind to a caller-facing message. The returned
// error prints only the message but matches the kind with errors.Is.
func Wrap(kind error, msg string) error {
	return &appError{kind: kind, msg: msg}
}

// HTTPStatus converts a service error into an HTTP status code.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
