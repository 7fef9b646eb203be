package events

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006/01/02",
	"01/02/2006",
}

// normalizeDate re-emits any recognized date string as YYYY-MM-DD.
// Unparsable input is a validation error and fails the save.
func normalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized date format: %q", s)
}

var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

// normalizeTime re-emits a recognized clock time as 24-hour HH:MM.
// Unrecognized input passes through trimmed, it does not fail the save.
func normalizeTime(s string) string {
	trimmed := strings.TrimSpace(s)
	upper := strings.ToUpper(trimmed)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, upper); err == nil {
			return t.Format("15:04")
		}
	}
	return trimmed
}
