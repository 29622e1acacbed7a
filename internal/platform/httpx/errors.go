package httpx

import (
	"errors"
	"net/http"
)

// Sentinel kinds for the domain layer. Domain errors wrap one of them so
// handlers can pick a status code without knowing every domain error.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
)

// ClientError is a domain error whose message is safe to show to the caller.
type ClientError struct {
	kind error
	msg  string
}

// NewClientError builds a ClientError of the given kind.
func NewClientError(kind error, msg string) *ClientError {
	return &ClientError{kind: kind, msg: msg}
}

func (e *ClientError) Error() string { return e.msg }

// Unwrap exposes the kind to errors.Is.
func (e *ClientError) Unwrap() error { return e.kind }

// IsClientError reports whether err carries a client-safe message.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// RespondError maps domain errors to HTTP responses. Anything that is not a
// ClientError becomes a plain-text 500.
func RespondError(w http.ResponseWriter, err error) {
	var ce *ClientError
	if !errors.As(err, &ce) {
		ServerError(w)
		return
	}
	switch {
	case errors.Is(ce.kind, ErrNotFound):
		Error(w, http.StatusNotFound, ce.msg)
	case errors.Is(ce.kind, ErrUnauthorized):
		Error(w, http.StatusUnauthorized, ce.msg)
	default:
		Error(w, http.StatusBadRequest, ce.msg)
	}
}
