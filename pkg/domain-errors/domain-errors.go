package domainerrors

import "errors"

// Code represents an error category independent of transport layer.
// The first four codes form the console's taxonomy; the rest are used by the
// demo backend when it plays the server role.
type Code string

const (
	CodeUnauthorized Code = "unauthorized"      // bad credentials or a rejected bearer token
	CodeAPI          Code = "api_error"         // any other non-success response
	CodeNetwork      Code = "network_error"     // transport failure, no server message
	CodeValidation   Code = "validation_failed" // local input check, never reaches the API

	CodeBadRequest Code = "bad_request"
	CodeNotFound   Code = "not_found"
	CodeConflict   Code = "conflict"
	CodeInternal   Code = "internal_error"
)

// Error wraps console or backend failures with a stable code.
// Message holds the server-provided text when one exists; Status is the HTTP
// status observed by a client, or zero when no response was received.
type Error struct {
	Code    Code
	Message string
	Status  int
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Status: existing.Status, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsUnauthorized reports whether err should end the operator's session.
func IsUnauthorized(err error) bool {
	return HasCode(err, CodeUnauthorized)
}

// StatusOf returns the HTTP status recorded on the outermost domain error in
// the chain, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// Describe converts err into the single line shown to the operator.
// Domain errors surface their message and fall back to the action's own
// wording; anything else is an unexpected failure.
func Describe(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return "An error occurred"
	}
	if e.Message != "" {
		return e.Message
	}
	if fallback != "" {
		return fallback
	}
	return "An error occurred"
}
