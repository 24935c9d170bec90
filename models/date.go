package models

import (
	"fmt"
	"time"
)

const DayFormat = "2006-01-02"

// Day normalizes a date value to a calendar-day string (YYYY-MM-DD).
// Timestamps are truncated to their day; the store compares day strings
// lexicographically, so everything written must pass through here first.
func Day(s string) (string, error) {
	if t, err := time.Parse(DayFormat, s); err == nil {
		return t.Format(DayFormat), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(DayFormat), nil
	}
	return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
}

func DayOf(t time.Time) string {
	return t.UTC().Format(DayFormat)
}
