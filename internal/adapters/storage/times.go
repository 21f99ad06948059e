package storage

import (
	"fmt"
	"strings"
	"time"
)

// ParseStoredTime parses a timestamp column written by any store.
// Columns are written as RFC3339Nano; older rows and hand-edited
// databases show up in a few other layouts.
func ParseStoredTime(value string) (time.Time, error) {
	if idx := strings.Index(value, " m="); idx != -1 {
		value = value[:idx]
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.9999999-07:00",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %q", value)
}

// FormatStoredTime writes a timestamp the way every store stores it.
func FormatStoredTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// FormatNullableTime returns NULL for the zero time.
func FormatNullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}
