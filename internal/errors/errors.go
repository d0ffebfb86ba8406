// Package errors provides structured error types for code-dbg.
// Every failure the URL handler or the CLI can surface has a stable
// machine-readable code plus a hint telling the user how to fix it.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a category of error for programmatic handling
type ErrorCode string

const (
	// Launch Coordinator errors
	CodeNoWorkspace        ErrorCode = "NO_WORKSPACE"
	CodeMissingPayload     ErrorCode = "MISSING_PAYLOAD"
	CodeMalformedPayload   ErrorCode = "MALFORMED_PAYLOAD"
	CodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	CodeExecutableNotFound ErrorCode = "EXECUTABLE_NOT_FOUND"
	CodeSessionStartFailed ErrorCode = "SESSION_START_FAILED"
	CodeContinueFailed     ErrorCode = "CONTINUE_FAILED"

	// Request Encoder errors
	CodeChannelNotDetected ErrorCode = "CHANNEL_NOT_DETECTED"
)

// LaunchError is a structured error that includes a stable code for tests
// and dispatch, and a hint for the human reading the notification.
type LaunchError struct {
	// Code is a machine-readable error category
	Code ErrorCode `json:"code"`

	// Message is a human-readable description of what went wrong
	Message string `json:"message"`

	// Hint provides actionable guidance on how to fix the error
	Hint string `json:"hint,omitempty"`

	// Details contains additional context (e.g., the invalid value)
	Details map[string]interface{} `json:"details,omitempty"`

	// Cause is the underlying error, if any
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *LaunchError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Hint != "" {
		sb.WriteString(" | Hint: ")
		sb.WriteString(e.Hint)
	}

	return sb.String()
}

// Unwrap returns the underlying error for error chaining
func (e *LaunchError) Unwrap() error {
	return e.Cause
}

// WithDetails adds details to the error
func (e *LaunchError) WithDetails(key string, value interface{}) *LaunchError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause
func (e *LaunchError) WithCause(err error) *LaunchError {
	e.Cause = err
	return e
}

// CodeOf returns the error code of err, or empty string if err is not a
// LaunchError anywhere in its chain.
func CodeOf(err error) ErrorCode {
	var le *LaunchError
	if stderrors.As(err, &le) {
		return le.Code
	}
	return ""
}

// --- Launch Coordinator errors ---

// NoWorkspace creates an error for when no workspace folder is open
func NoWorkspace() *LaunchError {
	return &LaunchError{
		Code:    CodeNoWorkspace,
		Message: "no workspace folder is open",
		Hint:    "Open a folder before launching a debug session; the session is started against the first open workspace root.",
	}
}

// MissingPayload creates an error for a launch URL without a payload parameter
func MissingPayload() *LaunchError {
	return &LaunchError{
		Code:    CodeMissingPayload,
		Message: "launch URL is missing the 'payload' query parameter",
		Hint:    "Generate the URL with the code-dbg CLI instead of constructing it by hand.",
	}
}

// MalformedPayload creates an error for a payload that cannot be decoded
func MalformedPayload(err error) *LaunchError {
	return &LaunchError{
		Code:    CodeMalformedPayload,
		Message: fmt.Sprintf("could not decode launch payload: %v", err),
		Hint:    "The payload must be base64-encoded JSON of the form {\"exe\": ..., \"args\": [...], \"cwd\": ...}.",
		Cause:   err,
	}
}

// InvalidRequest creates an error for a decoded request with missing fields
func InvalidRequest(missing []string) *LaunchError {
	return &LaunchError{
		Code:    CodeInvalidRequest,
		Message: fmt.Sprintf("launch request is missing required field(s): %s", strings.Join(missing, ", ")),
		Hint:    "exe and cwd must be non-empty and args must be present (it may be an empty list).",
		Details: map[string]interface{}{
			"missingFields": missing,
		},
	}
}

// ExecutableNotFound creates an error for a resolved path with no file behind it
func ExecutableNotFound(path string) *LaunchError {
	return &LaunchError{
		Code:    CodeExecutableNotFound,
		Message: fmt.Sprintf("executable not found: %s", path),
		Hint:    "Check the path and working directory; a relative exe is resolved against cwd.",
		Details: map[string]interface{}{
			"path": path,
		},
	}
}

// SessionStartFailed creates an error for a session the debugging subsystem refused to start
func SessionStartFailed(program string, err error) *LaunchError {
	msg := fmt.Sprintf("failed to start debug session for %s", program)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &LaunchError{
		Code:    CodeSessionStartFailed,
		Message: msg,
		Hint:    "Ensure the selected debugger backend is installed and the target is a debuggable binary.",
		Cause:   err,
		Details: map[string]interface{}{
			"program": program,
		},
	}
}

// ContinueFailed creates an error for a failed auto-continue request.
// This is logged, never shown to the user: the session is already usable.
func ContinueFailed(program string, err error) *LaunchError {
	return &LaunchError{
		Code:    CodeContinueFailed,
		Message: fmt.Sprintf("auto-continue failed for %s: %v", program, err),
		Cause:   err,
		Details: map[string]interface{}{
			"program": program,
		},
	}
}

// --- Request Encoder errors ---

// ChannelNotDetected creates an error for running outside a VS Code terminal
func ChannelNotDetected() *LaunchError {
	return &LaunchError{
		Code:    CodeChannelNotDetected,
		Message: "could not detect a VS Code terminal (stable or insiders)",
		Hint:    "Run code-dbg from a terminal inside VS Code, or pass --insiders to target VS Code Insiders explicitly.",
	}
}

// Wrap wraps a generic error with a code and message
func Wrap(code ErrorCode, message string, err error) *LaunchError {
	return &LaunchError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}
