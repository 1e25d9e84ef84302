// Package apperr defines the typed error taxonomy shared by the service and
// handler layers. Services raise these; the HTTP boundary maps each Kind to
// a status code.
package apperr

import "errors"

// Kind classifies an Error for boundary mapping.
type Kind int

const (
	// KindValidation marks malformed or missing request input.
	KindValidation Kind = iota + 1

	// KindAuthentication marks a failed credential check. Presented
	// uniformly as "Invalid credentials" regardless of whether the
	// identifier or the password failed, to prevent identifier enumeration.
	KindAuthentication

	// KindAuthorization marks valid credentials with an unrecognized role.
	KindAuthorization

	// KindNotFound marks a well-formed id with no matching record.
	KindNotFound

	// KindInternal marks store faults and other unexpected failures. The
	// underlying detail is logged, never sent to the caller.
	KindInternal
)

// Error carries a kind, a caller-safe message, and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an Error with the given kind and caller-safe message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap returns an Error with the given kind, caller-safe message, and cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from err; unclassified errors count as internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Message extracts the caller-safe message from err, falling back to a
// generic note for unclassified errors.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
