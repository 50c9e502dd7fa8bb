package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies provider failures
type Kind string

const (
	// UnparsableResponse means the backend answered but the expected JSON
	// could not be recovered from its text
	UnparsableResponse Kind = "unparsable_response"
	// Upstream covers transport failures and non-2xx answers
	Upstream Kind = "upstream"
	// BackendUnavailable means the configured backend cannot be used at all,
	// usually because its credential is missing
	BackendUnavailable Kind = "backend_unavailable"
)

// Error is returned by every Adapter operation
type Error struct {
	Kind    Kind
	Backend string
	Op      string
	// Raw is the completion text for UnparsableResponse
	Raw string
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Backend, e.Op, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode maps the error kind onto the HTTP status the API reports
func (e *Error) StatusCode() int {
	if e.Kind == BackendUnavailable {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// IsKind reports whether err is a provider Error of the given kind
func IsKind(err error, kind Kind) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.Kind == kind
}

func upstreamError(backend, op string, err error) error {
	var perr *Error
	if errors.As(err, &perr) {
		return err
	}
	return &Error{Kind: Upstream, Backend: backend, Op: op, Err: err}
}

// statusError is produced by the raw HTTP backends for non-2xx answers
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}
