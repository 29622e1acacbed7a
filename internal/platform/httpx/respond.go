// Package httpx provides HTTP response utilities shared by the API handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// ServerErrorText is the body of every 500 response.
const ServerErrorText = "Server Error"

// ErrorItem is one entry of the client error envelope.
type ErrorItem struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

// ErrorEnvelope is the body of every 4xx response.
type ErrorEnvelope struct {
	Errors []ErrorItem `json:"errors"`
}

// MessageBody carries a plain confirmation message.
type MessageBody struct {
	Msg string `json:"msg"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends a single-entry error envelope.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorEnvelope{Errors: []ErrorItem{{Msg: msg}}})
}

// Errors sends an error envelope holding every item.
func Errors(w http.ResponseWriter, status int, items []ErrorItem) {
	JSON(w, status, ErrorEnvelope{Errors: items})
}

// Message sends {"msg": msg} with status 200.
func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, MessageBody{Msg: msg})
}

// ServerError sends the generic plain-text 500 response. Callers log the cause.
func ServerError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = io.WriteString(w, ServerErrorText)
}

// ErrInvalidBody is reported for request bodies that are not valid JSON.
var ErrInvalidBody = NewClientError(ErrBadRequest, "Invalid request body")

// DecodeJSON decodes JSON request body into the target struct. An empty body
// leaves target untouched so validation reports the missing fields.
func DecodeJSON(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(target)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return ErrInvalidBody
}
