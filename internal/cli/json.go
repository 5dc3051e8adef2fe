package cli

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/rileyhilliard/km/internal/errors"
)

// Machine mode flag - when true, outputs JSON and suppresses
// human-friendly decorations
var machineMode bool

// JSONEnvelope wraps command output in a consistent structure for
// machine parsing. All --json output uses this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Stderr     string `json:"stderr,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeValidation     = "VALIDATION_FAILED"
	ErrCodeKeyExists      = "KEY_EXISTS"
	ErrCodeKeyNotFound    = "KEY_NOT_FOUND"
	ErrCodeToolFailed     = "TOOL_FAILED"
	ErrCodeToolMissing    = "TOOL_MISSING"
	ErrCodeTimeout        = "TIMEOUT"
	ErrCodePermission     = "PERMISSION_DENIED"
	ErrCodeCancelled      = "CANCELLED"
	ErrCodeParseFailed    = "PARSE_FAILED"
	ErrCodeDeletePartial  = "DELETE_PARTIAL"
	ErrCodeConfigNotFound = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "CONFIG_INVALID"
	ErrCodeUnknown        = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: true,
		Data:    data,
	})
}

// WriteJSONFromError converts an error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: false,
		Error:   ErrorToJSON(err),
	})
}

func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts an error to a JSONError with code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	if kmErr, ok := err.(*errors.Error); ok {
		return &JSONError{
			Code:       mapErrorCode(kmErr.Code, kmErr.Message),
			Message:    kmErr.Message,
			Suggestion: kmErr.Suggestion,
			Stderr:     kmErr.Stderr,
		}
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	switch internalCode {
	case errors.ErrValidation:
		return ErrCodeValidation
	case errors.ErrExists:
		return ErrCodeKeyExists
	case errors.ErrNotFound:
		return ErrCodeKeyNotFound
	case errors.ErrTool:
		return ErrCodeToolFailed
	case errors.ErrToolMissing:
		return ErrCodeToolMissing
	case errors.ErrTimeout:
		return ErrCodeTimeout
	case errors.ErrPermission:
		return ErrCodePermission
	case errors.ErrCancelled:
		return ErrCodeCancelled
	case errors.ErrParse:
		return ErrCodeParseFailed
	case errors.ErrDelete:
		return ErrCodeDeletePartial
	case errors.ErrConfig:
		// Distinguish between not found and invalid
		if strings.Contains(strings.ToLower(message), "not found") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	}

	return ErrCodeUnknown
}
