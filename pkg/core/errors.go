package core

import (
	"errors"
	"fmt"
)

// ErrorCategory groups errors by how the capture/replay loops react to them.
type ErrorCategory int

const (
	// ErrCategoryNone is the zero value.
	ErrCategoryNone ErrorCategory = iota
	// ErrCategoryConnection covers transport failures and lost sessions.
	// Connection errors are fatal: the loop terminates and saves.
	ErrCategoryConnection
	// ErrCategoryPoll covers per-cycle failures (attribute reads, queries).
	// The element or cycle is skipped and the loop continues.
	ErrCategoryPoll
	// ErrCategorySave covers recording persistence failures.
	ErrCategorySave
	// ErrCategoryResolution covers replay element-lookup failures.
	ErrCategoryResolution
	// ErrCategoryAction covers replay action-dispatch failures.
	ErrCategoryAction
	// ErrCategoryConfig covers invalid configuration.
	ErrCategoryConfig
)

// String returns the category name.
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryConnection:
		return "connection"
	case ErrCategoryPoll:
		return "poll"
	case ErrCategorySave:
		return "save"
	case ErrCategoryResolution:
		return "resolution"
	case ErrCategoryAction:
		return "action"
	case ErrCategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ExecutionError is a structured error with category and machine-readable code.
type ExecutionError struct {
	Category ErrorCategory
	Code     string // element_not_found, transport, session_lost, ...
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Is matches on category and code so sentinels work with errors.Is.
func (e *ExecutionError) Is(target error) bool {
	var t *ExecutionError
	if !errors.As(target, &t) {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause.
func (e *ExecutionError) WithCause(cause error) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message.
func (e *ExecutionError) WithMessage(msg string) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Cause:    e.Cause,
	}
}

// Predefined errors.
var (
	// Connection errors (fatal to a running loop)
	ErrServerUnreachable = &ExecutionError{
		Category: ErrCategoryConnection,
		Code:     "server_unreachable",
		Message:  "could not reach automation server",
	}
	ErrSessionLost = &ExecutionError{
		Category: ErrCategoryConnection,
		Code:     "session_lost",
		Message:  "automation session is no longer valid",
	}

	// Per-item errors (skip and continue)
	ErrElementNotFound = &ExecutionError{
		Category: ErrCategoryResolution,
		Code:     "element_not_found",
		Message:  "element not found",
	}
	ErrElementNotInteractable = &ExecutionError{
		Category: ErrCategoryAction,
		Code:     "element_not_interactable",
		Message:  "element is not visible and enabled",
	}
	ErrStaleElement = &ExecutionError{
		Category: ErrCategoryPoll,
		Code:     "stale_element",
		Message:  "element handle no longer attached to the screen",
	}

	ErrSaveFailed = &ExecutionError{
		Category: ErrCategorySave,
		Code:     "save_failed",
		Message:  "failed to persist recording",
	}
	ErrInvalidRecording = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "invalid_recording",
		Message:  "recording artifact is malformed",
	}
	ErrInvalidConfig = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "invalid_config",
		Message:  "invalid configuration",
	}
)

// IsFatal reports whether err should terminate a capture or replay loop
// rather than be skipped. Only connection-category errors qualify.
func IsFatal(err error) bool {
	var e *ExecutionError
	if errors.As(err, &e) {
		return e.Category == ErrCategoryConnection
	}
	return false
}
