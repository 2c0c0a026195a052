package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/wellmeing/internal/constants"
)

// FieldError reports a field that fails validation when an entity is built
// from user or assistant input.
type FieldError struct {
	Entity string
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s %s: %s", e.Entity, e.Field, e.Reason)
}

// Clean trims whitespace. An empty result means the field is absent.
func Clean(s string) string {
	return strings.TrimSpace(s)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// RuneLen counts the characters of s.
func RuneLen(s string) int {
	return len([]rune(s))
}

// FormatTimestamp renders t in the stored timestamp format.
func FormatTimestamp(t time.Time) string {
	return t.Format(constants.TimestampFormat)
}

// ParseTimestamp reads a stored timestamp in the local time zone.
func ParseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(constants.TimestampFormat, strings.TrimSpace(s), time.Local)
}
