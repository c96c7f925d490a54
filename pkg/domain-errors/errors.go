// Package domainerrors defines the coded error taxonomy surfaced to callers.
//
// Services return these (optionally wrapping a store or infrastructure error)
// and the HTTP layer translates codes into status codes and JSON envelopes.
// Codes are stable wire identifiers; messages are human-readable and may
// change.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error category on the wire (snake_case, stable).
type Code string

const (
	// CodePermissionDenied rejects a registration whose caller identity does
	// not match the registry owner. Deterministic; resubmitting the same
	// request fails the same way.
	CodePermissionDenied Code = "permission_denied"

	// CodeDuplicateAccount rejects a registration for an account id that is
	// already present in the primary index. Deterministic for the same input.
	CodeDuplicateAccount Code = "duplicate_account"

	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal_error"
)

// Error carries a code plus a message, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal
// for errors that did not originate in the domain layer.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the domain message from an error chain. Returns "" for
// non-domain errors so callers never leak internal error text.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// ToHTTPStatus maps an error code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeDuplicateAccount:
		return http.StatusConflict
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
