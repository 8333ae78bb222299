// Package errors carries the coded errors raised at flowglyph's edges.
//
// Placement itself never fails. Errors come from loading tables and config,
// decoding or storing sequences, and malformed API requests. Each carries a
// [Code] that the server maps to an HTTP status and the CLI prints as is:
//
//	err := errors.Wrap(errors.ErrCodeInvalidTable, cause, "decode %s", path)
//	if errors.Is(err, errors.ErrCodeInvalidTable) {
//	    // bad override or rule table
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Rejected input: bad flags, letters, motions, sequences, tables,
	// config, encodings or paths.
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidLetter   Code = "INVALID_LETTER"
	ErrCodeInvalidMotion   Code = "INVALID_MOTION"
	ErrCodeInvalidSequence Code = "INVALID_SEQUENCE"
	ErrCodeInvalidTable    Code = "INVALID_TABLE"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	ErrCodeSequenceNotFound Code = "SEQUENCE_NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"

	// ErrCodeNetwork marks an unreachable store backend.
	ErrCodeNetwork Code = "NETWORK_ERROR"

	ErrCodeInternal Code = "INTERNAL_ERROR"
	// ErrCodeUnsupported marks a feature the running configuration lacks,
	// such as storage on a server started without a store.
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

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

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of an *Error without its code or cause,
// and err.Error() for anything else.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
