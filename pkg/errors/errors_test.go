package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError(t *testing.T) {
	err := New(ErrCodeTableNotFound, "Table '%s' not found", "orders")
	if got, want := err.Error(), "TABLE_NOT_FOUND: Table 'orders' not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := UserMessage(err); got != "Table 'orders' not found" {
		t.Errorf("UserMessage() = %q", got)
	}

	cause := errors.New("connection refused")
	wrapped := Wrap(ErrCodeNetwork, cause, "list tables")
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error does not match its cause")
	}
	if errors.Unwrap(wrapped) != cause {
		t.Error("Unwrap did not return the cause")
	}
}

func TestCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		msg  string
	}{
		{"structured", New(ErrCodeInvalidInput, "limit must be positive"), ErrCodeInvalidInput, "limit must be positive"},
		{"outer code wins", Wrap(ErrCodeAPI, New(ErrCodeUnauthorized, "bad token"), "create table"), ErrCodeAPI, "create table"},
		{"through fmt wrapping", fmt.Errorf("tool: %w", New(ErrCodeColumnNotFound, "no column")), ErrCodeColumnNotFound, "no column"},
		{"plain", errors.New("boom"), "", "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeInternal) {
				t.Error("Is(INTERNAL_ERROR) = true")
			}
			if got := UserMessage(tt.err); got != tt.msg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.msg)
			}
		})
	}

	if GetCode(nil) != "" || Is(nil, ErrCodeInvalidInput) {
		t.Error("nil error has a code")
	}
}
