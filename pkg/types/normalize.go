package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NormalizeText trims surrounding whitespace.
func NormalizeText(v string) string {
	return strings.TrimSpace(v)
}

// NormalizeKey produces the canonical form used for natural-key comparison:
// trimmed and lower-cased.
func NormalizeKey(v string) string {
	return strings.ToLower(NormalizeText(v))
}

// NormalizeEmail canonicalizes an email address for storage and matching.
func NormalizeEmail(v string) string {
	return strings.ToLower(NormalizeText(v))
}

// NowISO returns the current UTC time as a zero-padded ISO-8601 string with
// millisecond precision. The format sorts lexicographically.
func NowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// NewID mints an entity id of the form prefix_unixmillis_random8.
func NewID(prefix string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), random)
}

// Clamp bounds v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ParseBool interprets the loose boolean forms accepted on input and stored
// on the sheet: "1", "true", "on", "yes" (any case) are true.
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// FormatBool renders a boolean as the stored cell value.
func FormatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
