package runner

import (
	"strings"
	"testing"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	limit := DefaultMaxInputSize

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SanitizeInput(strings.Repeat("a", tt.inputSize))
			if tt.wantErr && err == nil {
				t.Errorf("SanitizeInput() expected error for size %d, got nil", tt.inputSize)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("SanitizeInput() unexpected error: %v", err)
			}
		})
	}
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "8")

	if _, err := SanitizeInput("search a"); err != nil {
		t.Errorf("unexpected error at the limit: %v", err)
	}
	if _, err := SanitizeInput("search ab"); err == nil {
		t.Error("expected error over the overridden limit")
	}
}

func TestSanitizeInput_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "search a red", "search a red"},
		{"Tab Kept", "pick\ta\tone", "pick\ta\tone"},
		{"ANSI Code", "\x1b[31mRed\x1b[0m", "[31mRed[0m"},
		{"Null Byte", "Null\x00Byte", "NullByte"},
		{"Bell", "Ding\x07", "Ding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			if err != nil {
				t.Fatalf("SanitizeInput() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("SanitizeInput() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	if _, err := SanitizeInput("bad\xffbyte"); err != ErrInvalidUTF8 {
		t.Errorf("SanitizeInput() error = %v, want %v", err, ErrInvalidUTF8)
	}
}
