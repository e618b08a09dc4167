package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Short machine-readable error codes surfaced to callers alongside the
// HTTP status.
const (
	CodeInvalidArgument    = "invalid-argument"
	CodePermissionDenied   = "permission-denied"
	CodeNotFound           = "not-found"
	CodeFailedPrecondition = "failed-precondition"
	CodePartialWrite       = "partial-write"
	CodeInternal           = "internal"
)

// Error represents an application error
type Error struct {
	Code    string `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code string, status int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Status:  status,
		Message: message,
		Err:     err,
	}
}

// InvalidArgument marks malformed or missing caller input. Never retried
// automatically; the caller must correct the request.
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, http.StatusBadRequest, message, nil)
}

// PermissionDenied marks an authorization failure.
func PermissionDenied(message string) *Error {
	return New(CodePermissionDenied, http.StatusForbidden, message, nil)
}

// NotFound marks a referenced record that does not exist. Terminal for the
// request; retrying will not make the record appear.
func NotFound(message string) *Error {
	return New(CodeNotFound, http.StatusNotFound, message, nil)
}

// FailedPrecondition marks stored data that is missing expected fields.
// Terminal; the record has to be fixed out-of-band.
func FailedPrecondition(message string) *Error {
	return New(CodeFailedPrecondition, http.StatusBadRequest, message, nil)
}

// PartialWrite marks a dependent write that failed after an earlier write
// already committed. Safe to retry the whole operation: every write is
// idempotent.
func PartialWrite(message string, err error) *Error {
	return New(CodePartialWrite, http.StatusInternalServerError, message, err)
}

// Internal marks an unexpected underlying failure.
func Internal(message string, err error) *Error {
	return New(CodeInternal, http.StatusInternalServerError, message, err)
}

// From coerces any error into an *Error, wrapping unknown errors as
// internal so transport code always has a code and status to respond with.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}
