package validation

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestIsValidName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxLength int
		wantErr   error
	}{
		{name: "Simple name", input: "disk", maxLength: DefaultMaxNameLength},
		{name: "Dotted name", input: "net.peer-io", maxLength: DefaultMaxNameLength},
		{name: "Underscores and digits", input: "worker_2", maxLength: DefaultMaxNameLength},
		{name: "Empty name", input: "", maxLength: DefaultMaxNameLength, wantErr: ErrInvalidChars},
		{name: "Spaces rejected", input: "net peer", maxLength: DefaultMaxNameLength, wantErr: ErrInvalidChars},
		{name: "Control chars rejected", input: "disk\n", maxLength: DefaultMaxNameLength, wantErr: ErrInvalidChars},
		{name: "Slash rejected", input: "net/io", maxLength: DefaultMaxNameLength, wantErr: ErrInvalidChars},
		{
			name:      "Too long",
			input:     strings.Repeat("a", DefaultMaxNameLength+1),
			maxLength: DefaultMaxNameLength,
			wantErr:   ErrInputTooLong,
		},
		{
			name:      "Exactly at limit",
			input:     strings.Repeat("a", 16),
			maxLength: 16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := IsValidName(tt.input, tt.maxLength)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("IsValidName(%q) = %v, want nil", tt.input, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("IsValidName(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxLength int
		expected  string
	}{
		{name: "Plain text untouched", input: "low disk space", maxLength: 64, expected: "low disk space"},
		{name: "Surrounding whitespace trimmed", input: "  padded  ", maxLength: 64, expected: "padded"},
		{name: "Control characters stripped", input: "a\x00b\x1bc", maxLength: 64, expected: "abc"},
		{name: "Newlines stripped", input: "line1\nline2", maxLength: 64, expected: "line1line2"},
		{name: "Truncated to max length", input: "123456789", maxLength: 5, expected: "12345"},
		{name: "Empty input", input: "", maxLength: 64, expected: ""},
		{
			// Stripped bytes must not count against the cap.
			name:      "Control characters stripped before the cap",
			input:     "a\x00b\x00c\x00d\x00",
			maxLength: 6,
			expected:  "abcd",
		},
		{
			// A cap landing mid-rune backs off to the previous boundary.
			name:      "Multibyte rune boundary",
			input:     strings.Repeat("é", 10),
			maxLength: 5,
			expected:  "éé",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeString(tt.input, tt.maxLength)
			if got != tt.expected {
				t.Errorf("SanitizeString(%q, %d) = %q, want %q", tt.input, tt.maxLength, got, tt.expected)
			}
			if !utf8.ValidString(got) {
				t.Errorf("SanitizeString(%q, %d) returned invalid UTF-8: %q", tt.input, tt.maxLength, got)
			}
		})
	}
}
