package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidTable, "override for %q has no action", "G")

	if err.Code != ErrCodeInvalidTable {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidTable)
	}

	if err.Message != `override for "G" has no action` {
		t.Errorf("Message = %v", err.Message)
	}

	expected := `INVALID_TABLE: override for "G" has no action`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("toml: line 3: expected '='")
	err := Wrap(ErrCodeInvalidTable, cause, "decode overrides.toml")

	if err.Code != ErrCodeInvalidTable {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidTable)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	want := "INVALID_TABLE: decode overrides.toml: toml: line 3: expected '='"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeSequenceNotFound, "missing"),
			code:     ErrCodeSequenceNotFound,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeSequenceNotFound, "missing"),
			code:     ErrCodeFileNotFound,
			expected: false,
		},
		{
			name:     "outermost code wins",
			err:      Wrap(ErrCodeInternal, New(ErrCodeInvalidTable, "inner"), "outer"),
			code:     ErrCodeInternal,
			expected: true,
		},
		{
			name:     "behind fmt wrapping",
			err:      fmt.Errorf("load: %w", New(ErrCodeInvalidConfig, "bad")),
			code:     ErrCodeInvalidConfig,
			expected: true,
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInvalidLetter, "test"), ErrCodeInvalidLetter},
		{"wrapped", fmt.Errorf("ctx: %w", New(ErrCodeNetwork, "down")), ErrCodeNetwork},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"wrapped keeps message", Wrap(ErrCodeNetwork, errors.New("dial tcp"), "redis unavailable"), "redis unavailable"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
