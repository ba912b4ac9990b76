// File: /utils/validators.go
package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

var timeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

// IsValidWorkoutTime accepts HH:MM or HH:MM:SS.
func IsValidWorkoutTime(value string) bool {
	return timeRegex.MatchString(value)
}

// NilIfBlank trims s and maps empty strings to nil
func NilIfBlank(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ParseBoundedInt reads a non-negative integer query value, falling back to
// def when missing or malformed and clamping to max when max > 0.
func ParseBoundedInt(raw string, def, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return def
	}
	if max > 0 && n > max {
		return max
	}
	return n
}
