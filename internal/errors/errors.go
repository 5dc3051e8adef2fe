package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrValidation  = "VALIDATION"  // bad input, rejected before any I/O
	ErrExists      = "EXISTS"      // key pair already exists
	ErrNotFound    = "NOTFOUND"    // required key file is missing
	ErrTool        = "TOOL"        // external tool exited nonzero
	ErrToolMissing = "TOOLMISSING" // external tool is not installed
	ErrTimeout     = "TIMEOUT"     // external tool exceeded its deadline
	ErrPermission  = "PERMISSION"  // filesystem permission failure
	ErrCancelled   = "CANCELLED"   // interactive prompt was cancelled
	ErrParse       = "PARSE"       // tool output could not be classified
	ErrDelete      = "DELETE"      // partial failure during paired deletion
	ErrConfig      = "CONFIG"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error

	// Stderr carries the raw diagnostic output of a failed external tool.
	// Callers may pattern-match it for friendlier messaging; the backend
	// only surfaces it.
	Stderr string
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrTool code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrTool,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// NewTool creates a TOOL error carrying the raw stderr of the failed invocation.
func NewTool(message, stderr string) *Error {
	return &Error{
		Code:    ErrTool,
		Message: message,
		Stderr:  stderr,
	}
}

// Error implements the error interface with formatted output.
func (e *Error) Error() string {
	var b strings.Builder

	// First line: failure symbol + main message
	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	// Include cause if present (why it failed)
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	// Include raw tool output if present
	if e.Stderr != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", strings.TrimSpace(e.Stderr)))
	}

	// Include suggestion if present (how to fix)
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var kmErr *Error
	if errors.As(err, &kmErr) {
		return kmErr.Code == code
	}
	return false
}

// StderrOf returns the raw tool stderr attached to an error, if any.
func StderrOf(err error) string {
	var kmErr *Error
	if errors.As(err, &kmErr) {
		return kmErr.Stderr
	}
	return ""
}
