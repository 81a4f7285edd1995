// Package apperr defines the typed error kinds shared by all tool operations.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers deciding how to react.
type Kind string

const (
	// KindInvalidRequest marks malformed or missing arguments. Never retried.
	KindInvalidRequest Kind = "invalid_request"
	// KindNotFound marks a referenced page or block that does not exist.
	KindNotFound Kind = "not_found"
	// KindMethodNotFound marks an unknown operation name.
	KindMethodNotFound Kind = "method_not_found"
	// KindUnavailable marks a Store that is unreachable or timed out.
	// Safe to retry with backoff for read-only operations.
	KindUnavailable Kind = "unavailable"
	// KindRejected marks a write the remote store refused.
	KindRejected Kind = "rejected"
	// KindInternal marks an unexpected condition inside the core.
	KindInternal Kind = "internal"
)

// Error carries a Kind alongside a message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// InvalidRequest creates a KindInvalidRequest error.
func InvalidRequest(format string, args ...any) *Error {
	return New(KindInvalidRequest, format, args...)
}

// NotFound creates a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}
