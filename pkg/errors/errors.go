// Package errors defines the error taxonomy shared by services and handlers.
// Validation and conflict failures are plain values returned up the stack,
// never panics; handlers translate kinds into HTTP status codes.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks client-input failures (missing/malformed fields).
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict marks duplicate-email submissions.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized marks missing or mismatched credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal marks infrastructure faults (storage unreachable etc.).
	ErrInternal = errors.New("internal error")
)

// RequestError carries a client-facing message together with its kind so a
// handler can pick the status code with errors.Is and render Message as-is.
type RequestError struct {
	Kind    error
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *RequestError) Unwrap() error { return e.Kind }

// Invalid builds a client-input error with the given user-facing message.
func Invalid(message string) error {
	return &RequestError{Kind: ErrInvalidInput, Message: message}
}

// Conflict builds a duplicate-data error with the given user-facing message.
func Conflict(message string) error {
	return &RequestError{Kind: ErrConflict, Message: message}
}

// Internal wraps an infrastructure fault. The cause is logged server-side and
// only exposed to clients in development mode.
func Internal(message string, cause error) error {
	return &RequestError{Kind: ErrInternal, Message: message, Cause: cause}
}

// Message extracts the client-facing message from an error, falling back to
// the raw error text.
func Message(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}
	return err.Error()
}

// CauseDetail returns the underlying cause text for development responses,
// or an empty string when there is none.
func CauseDetail(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Cause != nil {
		return reqErr.Cause.Error()
	}
	return ""
}
