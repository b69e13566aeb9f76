package vocab

import (
	"strings"
	"time"
)

// TimestampLayout is the ISO-8601 form GrokkedAt is written in.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

const dateKeyLayout = "2006/01/02"

// DateKey converts an ISO-8601 timestamp into its UTC YYYY/MM/DD cohort key.
// Timestamps that do not parse fall back to their first ten characters.
func DateKey(ts string) string {
	if ts == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		return t.UTC().Format(dateKeyLayout)
	}
	if len(ts) < 10 {
		return ""
	}
	return strings.ReplaceAll(ts[:10], "-", "/")
}

// ParseDateKey parses a YYYY/MM/DD key as UTC midnight.
func ParseDateKey(key string) (time.Time, bool) {
	t, err := time.ParseInLocation(dateKeyLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
