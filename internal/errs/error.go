// Package errs defines the application error taxonomy shared by the services
// and the HTTP boundary.
package errs

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	// EINVALID marks malformed or semantically invalid input.
	EINVALID = "invalid"
	// EINVALIDOP marks a well-formed request that breaks a domain rule,
	// such as following yourself.
	EINVALIDOP = "invalid_operation"
	// ENOTFOUND marks a referenced entity that does not exist.
	ENOTFOUND = "not_found"
	// EUNAUTHORIZED marks an operation that requires an identity but has none.
	EUNAUTHORIZED = "unauthorized"
	// EFORBIDDEN marks an authenticated actor acting on something it does not own.
	EFORBIDDEN = "forbidden"
	// ECONFLICT marks a uniqueness violation such as a taken username.
	ECONFLICT = "conflict"
	EINTERNAL = "internal"
)

// Error is an application error. Field is set for validation errors that
// concern a single input field.
type Error struct {
	Code    string
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errorf returns an *Error with the given code and formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Invalid returns a validation error for a single field.
func Invalid(field, message string) *Error {
	return &Error{Code: EINVALID, Field: field, Message: message}
}

// NotFound returns an ENOTFOUND error naming the missing resource.
func NotFound(resource string) *Error {
	return &Error{Code: ENOTFOUND, Message: resource + " not found."}
}

// ErrorCode unwraps err and returns its code. Non-application errors
// report EINTERNAL; nil reports an empty string.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps err and returns its human-readable message.
// Internal errors are masked.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// ErrorField returns the offending field of a validation error, if any.
func ErrorField(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return ErrorCode(err) == code
}
