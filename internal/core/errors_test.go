package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Is(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
	}{
		{
			name:     "Same kind",
			err:      &Error{Kind: KindResolveFailed, StatusCode: 404},
			target:   ErrResolveFailed,
			expected: true,
		},
		{
			name:     "Different kind",
			err:      &Error{Kind: KindResolveFailed},
			target:   ErrUploadFetchFailed,
			expected: false,
		},
		{
			name:     "Wrapped",
			err:      fmt.Errorf("confirm: %w", &Error{Kind: KindTokenAcquisitionFailed}),
			target:   ErrTokenAcquisitionFailed,
			expected: true,
		},
		{
			name:     "Joined",
			err:      errors.Join(errors.New("other"), &Error{Kind: KindResolveFailed}),
			target:   ErrResolveFailed,
			expected: true,
		},
		{
			name:     "Plain error",
			err:      errors.New("boom"),
			target:   ErrBusy,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.expected {
				t.Errorf("errors.Is() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &Error{Kind: KindUploadFetchFailed, Err: cause}

	if !errors.Is(err, cause) {
		t.Error("Expected error to unwrap to its cause")
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: KindTokenAcquisitionFailed, StatusCode: 401, Message: "invalid_client"}

	msg := err.Error()
	for _, part := range []string{"token_acquisition_failed", "401", "invalid_client"} {
		if !strings.Contains(msg, part) {
			t.Errorf("Error() = %q, expected it to contain %q", msg, part)
		}
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(fmt.Errorf("x: %w", ErrEmptyCommit)); got != KindEmptyCommit {
		t.Errorf("KindOf() = %q, expected %q", got, KindEmptyCommit)
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf() = %q, expected empty kind", got)
	}
	if got := KindOf(nil); got != "" {
		t.Errorf("KindOf(nil) = %q, expected empty kind", got)
	}
}
