package apperrors

import "fmt"

// Kind classifies an application error so handlers can map it to an HTTP status.
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindRejected     Kind = "REJECTED"
	KindConflict     Kind = "CONFLICT"
	KindInternal     Kind = "INTERNAL"
)

// Error carries a kind, a human-readable message, and optional structured
// details the client needs to correct the request (e.g. the current highest
// bid) without another round trip.
type Error struct {
	Kind    Kind                   `json:"kind"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func Rejected(message string) *Error {
	return New(KindRejected, message)
}

// RejectedWith attaches correction data to a business-rule rejection.
func RejectedWith(message string, details map[string]interface{}) *Error {
	return &Error{Kind: KindRejected, Message: message, Details: details}
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Cause: cause}
}

// StatusCode maps a kind to its HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return 404
	case KindUnauthorized:
		return 401
	case KindForbidden:
		return 403
	case KindRejected:
		return 400
	case KindConflict:
		return 409
	default:
		return 500
	}
}

// AsError returns err as *Error, wrapping unknown errors as Internal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return Internal("Internal Server Error", err)
}
