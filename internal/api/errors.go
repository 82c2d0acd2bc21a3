package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure kinds. Every *Error wraps exactly one of them, so callers can branch with errors.Is.
var (
	ErrNetwork   = errors.New("network failure")
	ErrStatus    = errors.New("unexpected http status")
	ErrMalformed = errors.New("malformed response")
)

// Error describes a failed backend call.
type Error struct {
	Op     string // e.g. "list catalog"
	Method string
	Status int   // HTTP status, zero for network failures
	Kind   error // ErrNetwork, ErrStatus or ErrMalformed
	Err    error // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (%d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UserMessage collapses any backend failure into the single message shown to users.
// Writes and reads get different wording; the cause itself is only logged.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Method != http.MethodGet {
		return "Failed to submit, please try again."
	}
	return "Failed to load, please try again."
}
