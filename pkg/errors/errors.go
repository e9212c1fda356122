// Package errors provides structured error types for the net editing engine.
//
// Errors fall into three channels:
//   - Logic errors: an invariant of the net graph was violated by a programming
//     mistake. They are raised with [Logic], which panics. Command groups recover
//     the panic only to roll back their children and then re-panic.
//   - Runtime errors: a valid user action could not be completed for a domain
//     reason (conflicting forced net names, a pin that is already attached, an
//     unsupported merge). They are returned as ordinary errors and are always
//     recoverable: the triggering transaction is rolled back completely.
//   - Cancellation: an explicit abort by the user. Not a failure.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNameConflict, "net names %q and %q collide", a, b)
//	if errors.IsUserActionable(err) {
//	    logger.Warn(errors.UserMessage(err))
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Invariant violations (never user facing)
	ErrCodeLogic Code = "LOGIC_ERROR"

	// User-actionable failures
	ErrCodeRuntime        Code = "RUNTIME_ERROR"
	ErrCodeNameConflict   Code = "NAME_CONFLICT"
	ErrCodeDuplicateName  Code = "DUPLICATE_NAME"
	ErrCodeInvalidNetName Code = "INVALID_NET_NAME"
	ErrCodePinAttached    Code = "PIN_ATTACHED"
	ErrCodeUnsupported    Code = "UNSUPPORTED"
	ErrCodeNothingHere    Code = "NOTHING_UNDER_CURSOR"

	// Explicit abort
	ErrCodeCanceled Code = "USER_CANCELED"

	// Configuration and input errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeParse        Code = "PARSE_ERROR"

	// Script assertions
	ErrCodeExpectation Code = "EXPECTATION_FAILED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Runtime creates a generic user-actionable error.
func Runtime(format string, args ...any) *Error {
	return New(ErrCodeRuntime, format, args...)
}

// Canceled is returned when the user aborts an open operation.
var Canceled = New(ErrCodeCanceled, "operation canceled")

// Logic panics with an ErrCodeLogic error. It marks a broken invariant and
// must never be reachable through valid user input.
func Logic(format string, args ...any) {
	panic(New(ErrCodeLogic, format, args...))
}

// AsLogic extracts the logic error from a recovered panic value.
// It returns nil for any other value.
func AsLogic(recovered any) *Error {
	e, ok := recovered.(*Error)
	if !ok || e.Code != ErrCodeLogic {
		return nil
	}
	return e
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCanceled reports whether err is a user cancellation.
func IsCanceled(err error) bool {
	return Is(err, ErrCodeCanceled)
}

// IsUserActionable reports whether err is a recoverable domain failure that
// should be reported to the user.
func IsUserActionable(err error) bool {
	switch GetCode(err) {
	case "", ErrCodeLogic, ErrCodeCanceled:
		return false
	}
	return true
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
