package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultMaxNameLength bounds the subsystem name of an intake record.
	DefaultMaxNameLength = 128
	// DefaultMaxMessageLength bounds the message text of an intake record.
	DefaultMaxMessageLength = 8192
)

// Regex for basic validation of subsystem names (alphanumeric, underscore,
// hyphen, dot)
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ErrInputTooLong indicates the input string exceeds the maximum allowed length.
var ErrInputTooLong = errors.New("input exceeds maximum length")

// ErrInvalidChars indicates the input string contains disallowed characters.
var ErrInvalidChars = errors.New("input contains invalid characters")

// IsValidName checks if the input string matches the allowed format for a
// subsystem name.
func IsValidName(name string, maxLength int) error {
	if len(name) > maxLength {
		return fmt.Errorf("%w: got %d, max %d", ErrInputTooLong, len(name), maxLength)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("%w: allowed alphanumeric, underscore, hyphen, dot", ErrInvalidChars)
	}
	return nil
}

// SanitizeString removes non-printable characters (excluding space) and
// trims whitespace, then truncates the result to maxLength bytes on a rune
// boundary. Stripping happens before the cap so stripped bytes never count
// against it.
func SanitizeString(s string, maxLength int) string {
	s = strings.TrimSpace(s)
	// Remove non-printable characters except space
	s = strings.Map(func(r rune) rune {
		if r == ' ' || (unicode.IsPrint(r) && r != '�') {
			return r
		}
		return -1
	}, s)
	if len(s) > maxLength {
		cut := maxLength
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}
