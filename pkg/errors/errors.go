// Package errors provides structured error types for the sidereal engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the ephemeris API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//
// # Error Codes
//
// Error codes fall into three families that callers can branch on:
//   - INVALID_*: malformed input, detected before any provider call ([IsInput])
//   - *_LOCAL_TIME, UNKNOWN_TIMEZONE: civil time could not be mapped to a
//     single UTC instant ([IsTimeResolution])
//   - PROVIDER_*, TIMEZONE_*, UNSUPPORTED_*, OUT_OF_RANGE: a collaborator
//     failed ([IsProvider])
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidLatitude, "latitude %v out of range", lat)
//	if errors.IsInput(err) {
//	    // Ask the user to fix the request
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeProvider, origErr, "position of %s", body)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidDate        Code = "INVALID_DATE"
	ErrCodeInvalidTime        Code = "INVALID_TIME"
	ErrCodeInvalidLatitude    Code = "INVALID_LATITUDE"
	ErrCodeInvalidLongitude   Code = "INVALID_LONGITUDE"
	ErrCodeInvalidAyanamsa    Code = "INVALID_AYANAMSA"
	ErrCodeInvalidHouseSystem Code = "INVALID_HOUSE_SYSTEM"
	ErrCodeInvalidOrb         Code = "INVALID_ORB"
	ErrCodeInvalidHorizon     Code = "INVALID_HORIZON"
	ErrCodeInvalidBody        Code = "INVALID_BODY"

	// Time resolution errors
	ErrCodeNonexistentLocalTime Code = "NONEXISTENT_LOCAL_TIME"
	ErrCodeAmbiguousLocalTime   Code = "AMBIGUOUS_LOCAL_TIME"
	ErrCodeUnknownTimezone      Code = "UNKNOWN_TIMEZONE"

	// Collaborator errors
	ErrCodeProvider               Code = "PROVIDER_ERROR"
	ErrCodeTimezone               Code = "TIMEZONE_ERROR"
	ErrCodeUnsupportedHouseSystem Code = "UNSUPPORTED_HOUSE_SYSTEM"
	ErrCodeUnsupportedBody        Code = "UNSUPPORTED_BODY"
	ErrCodeOutOfRange             Code = "OUT_OF_RANGE"

	// Infrastructure errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"
	ErrCodeTimeout  Code = "TIMEOUT"
	ErrCodeConfig   Code = "CONFIG_ERROR"
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// Is reports whether err has the given error code.
// It returns the code of the outermost *Error in the chain.
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

// IsInput reports whether err is an input validation failure.
func IsInput(err error) bool {
	return strings.HasPrefix(string(GetCode(err)), "INVALID_")
}

// IsTimeResolution reports whether err means the civil birth time could not
// be mapped to exactly one UTC instant.
func IsTimeResolution(err error) bool {
	switch GetCode(err) {
	case ErrCodeNonexistentLocalTime, ErrCodeAmbiguousLocalTime, ErrCodeUnknownTimezone:
		return true
	}
	return false
}

// IsProvider reports whether err originates from the ephemeris provider or
// the timezone resolver.
func IsProvider(err error) bool {
	switch GetCode(err) {
	case ErrCodeProvider, ErrCodeTimezone, ErrCodeUnsupportedHouseSystem, ErrCodeUnsupportedBody, ErrCodeOutOfRange:
		return true
	}
	return false
}

// HTTPStatus maps an error to the status code the ephemeris API answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return 200
	case IsInput(err):
		return 400
	case Is(err, ErrCodeUnsupportedBody), Is(err, ErrCodeUnsupportedHouseSystem), Is(err, ErrCodeOutOfRange):
		return 422
	case Is(err, ErrCodeNotFound):
		return 404
	case Is(err, ErrCodeTimeout):
		return 504
	case IsProvider(err), Is(err, ErrCodeNetwork):
		return 502
	default:
		return 500
	}
}
