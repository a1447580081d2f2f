package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCategory_String(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		expected string
	}{
		{ErrCategoryNone, "none"},
		{ErrCategoryConnection, "connection"},
		{ErrCategoryPoll, "poll"},
		{ErrCategorySave, "save"},
		{ErrCategoryResolution, "resolution"},
		{ErrCategoryAction, "action"},
		{ErrCategoryConfig, "config"},
		{ErrorCategory(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.category.String(); got != tt.expected {
			t.Errorf("ErrorCategory(%d).String() = %q, want %q", tt.category, got, tt.expected)
		}
	}
}

func TestExecutionError_WithCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := ErrServerUnreachable.WithCause(cause)

	if !errors.Is(err, ErrServerUnreachable) {
		t.Error("wrapped error should match its sentinel via errors.Is")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if err.Error() != "could not reach automation server: connection refused" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	// The sentinel itself is unchanged.
	if ErrServerUnreachable.Cause != nil {
		t.Error("WithCause must not mutate the sentinel")
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"server unreachable", ErrServerUnreachable, true},
		{"session lost wrapped", fmt.Errorf("cycle failed: %w", ErrSessionLost.WithCause(errors.New("eof"))), true},
		{"element not found", ErrElementNotFound, false},
		{"stale element", ErrStaleElement, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		if got := IsFatal(tt.err); got != tt.fatal {
			t.Errorf("%s: IsFatal = %v, want %v", tt.name, got, tt.fatal)
		}
	}
}
