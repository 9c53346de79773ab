// Package clierr defines structured error types for CLI commands.
// Errors carry a machine-readable code, a human-readable message,
// and optional details for scripted consumers.
package clierr

import (
	"fmt"
	"strconv"
)

// Error code constants: uppercase, underscore-separated, stable across minor versions.
const (
	TaskNotFound            = "TASK_NOT_FOUND"
	AmbiguousTaskID         = "AMBIGUOUS_TASK_ID"
	BoardNotFound           = "BOARD_NOT_FOUND"
	BoardAlreadyExists      = "BOARD_ALREADY_EXISTS"
	InvalidInput            = "INVALID_INPUT"
	InvalidStage            = "INVALID_STAGE"
	InvalidProgress         = "INVALID_PROGRESS"
	InvalidDate             = "INVALID_DATE"
	InvalidMove             = "INVALID_MOVE"
	InvalidEvent            = "INVALID_EVENT"
	NoChanges               = "NO_CHANGES"
	StatusConflict          = "STATUS_CONFLICT"
	ConfirmationReq         = "CONFIRMATION_REQUIRED"
	PersistenceWriteFailure = "PERSISTENCE_WRITE_FAILURE"
	AuthFailed              = "AUTH_FAILED"
	AuthTimeout             = "AUTH_TIMEOUT"
	NotLoggedIn             = "NOT_LOGGED_IN"
	InternalError           = "INTERNAL_ERROR"
)

// Error represents a structured CLI error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap exposes the underlying cause, if any, to errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error with the given code whose message is taken from err.
func Wrap(code string, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Err: err}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// SilentError signals an exit code without additional output.
// Used by batch operations where results are already written to stdout.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
