package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidLatitude, "latitude %v out of range", 91)

	if err.Code != ErrCodeInvalidLatitude {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidLatitude)
	}

	if err.Message != "latitude 91 out of range" {
		t.Errorf("Message = %v, want %v", err.Message, "latitude 91 out of range")
	}

	expected := "INVALID_LATITUDE: latitude 91 out of range"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("swe_calc failed")
	err := Wrap(ErrCodeProvider, cause, "position of mars")

	if err.Code != ErrCodeProvider {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeProvider)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
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
		{"matching code", New(ErrCodeInvalidDate, "x"), ErrCodeInvalidDate, true},
		{"different code", New(ErrCodeInvalidDate, "x"), ErrCodeInvalidTime, false},
		{"wrapped by fmt", fmt.Errorf("outer: %w", New(ErrCodeTimeout, "x")), ErrCodeTimeout, true},
		{"plain error", errors.New("x"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidOrb, "orb must be positive")); got != "orb must be positive" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestCategories(t *testing.T) {
	tests := []struct {
		code     Code
		input    bool
		timeRes  bool
		provider bool
	}{
		{ErrCodeInvalidLatitude, true, false, false},
		{ErrCodeInvalidHouseSystem, true, false, false},
		{ErrCodeNonexistentLocalTime, false, true, false},
		{ErrCodeAmbiguousLocalTime, false, true, false},
		{ErrCodeProvider, false, false, true},
		{ErrCodeUnsupportedHouseSystem, false, false, true},
		{ErrCodeTimezone, false, false, true},
		{ErrCodeInternal, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := fmt.Errorf("ctx: %w", New(tt.code, "x"))
			if got := IsInput(err); got != tt.input {
				t.Errorf("IsInput = %v, want %v", got, tt.input)
			}
			if got := IsTimeResolution(err); got != tt.timeRes {
				t.Errorf("IsTimeResolution = %v, want %v", got, tt.timeRes)
			}
			if got := IsProvider(err); got != tt.provider {
				t.Errorf("IsProvider = %v, want %v", got, tt.provider)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 200},
		{New(ErrCodeInvalidInput, "x"), 400},
		{New(ErrCodeUnsupportedHouseSystem, "x"), 422},
		{New(ErrCodeOutOfRange, "x"), 422},
		{New(ErrCodeProvider, "x"), 502},
		{New(ErrCodeTimeout, "x"), 504},
		{errors.New("x"), 500},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
