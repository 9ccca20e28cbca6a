// Package errors provides structured error types for fpviz.
//
// Every failure that reaches the command line carries a machine-readable
// [Code] so callers (the CLI exit path, the HTTP server) can map it to an exit
// status or response code without string matching.
//
// # Error Codes
//
//   - INVALID_*: bad flags, options or request parameters
//   - PARSE_ERROR: malformed block, net, output, node or placement file
//   - FILE_NOT_FOUND / UNKNOWN_NAME: missing inputs or dangling references
//   - TOO_LARGE: an input exceeds a configured resource budget
//   - INTERNAL_ERROR / UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // Handle validation error
//	}
//
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidWindow Code = "INVALID_WINDOW"
	ErrCodeInvalidMethod Code = "INVALID_METHOD"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Input file errors
	ErrCodeParse        Code = "PARSE_ERROR"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeUnknownName  Code = "UNKNOWN_NAME"
	ErrCodeNotFound     Code = "NOT_FOUND"

	// Resource errors
	ErrCodeTooLarge Code = "TOO_LARGE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
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

// ParseError locates a syntax problem in an input file.
type ParseError struct {
	File string // base name or path of the input, may be empty for readers
	Line int    // 1-based line number, 0 when unknown
	Msg  string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, e.Msg)
	}
	return e.Msg
}

// Parse returns a PARSE_ERROR Error pointing at line of file.
func Parse(file string, line int, format string, args ...any) *Error {
	pe := &ParseError{File: file, Line: line, Msg: fmt.Sprintf(format, args...)}
	return &Error{Code: ErrCodeParse, Message: pe.Error(), Cause: pe}
}

// WithFile returns err with its ParseError (if any) attributed to file.
// Parsers work on io.Readers and do not know the path they were given.
func WithFile(err error, file string) error {
	var pe *ParseError
	if !errors.As(err, &pe) || pe.File != "" {
		return err
	}
	pe.File = file
	return &Error{Code: ErrCodeParse, Message: pe.Error(), Cause: pe}
}
