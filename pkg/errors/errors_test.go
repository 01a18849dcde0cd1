package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodePanelRender, cause, "panel 2")

	if err.Code != ErrCodePanelRender {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodePanelRender)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
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
			err:      New(ErrCodeInvalidConfig, "test"),
			code:     ErrCodeInvalidConfig,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidConfig, "test"),
			code:     ErrCodeUnsupportedRank,
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeInternal,
			expected: false,
		},
		{
			name:     "wrapped structured error",
			err:      Wrap(ErrCodeUnsupportedRank, errors.New("cause"), "bad rank"),
			code:     ErrCodeUnsupportedRank,
			expected: true,
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
	if code := GetCode(New(ErrCodePanelRender, "fail")); code != ErrCodePanelRender {
		t.Errorf("GetCode() = %v, want %v", code, ErrCodePanelRender)
	}
	if code := GetCode(errors.New("plain")); code != "" {
		t.Errorf("GetCode() = %q, want empty", code)
	}
}

func TestUserMessage(t *testing.T) {
	if msg := UserMessage(New(ErrCodeInvalidInput, "bad panel count")); msg != "bad panel count" {
		t.Errorf("UserMessage() = %q, want %q", msg, "bad panel count")
	}
	if msg := UserMessage(errors.New("plain")); msg != "plain" {
		t.Errorf("UserMessage() = %q, want %q", msg, "plain")
	}
}
