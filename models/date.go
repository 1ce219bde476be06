package models

import (
	"strings"
	"time"
)

// DateLayout is the layout dates are written in.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order. "2006-1-2" accepts both padded and
// unpadded months and days, so "2023-9-1" and "2023-09-01" parse the same.
var dateLayouts = []string{
	"2006-1-2",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-1-2T15:04:05",
	"2006-1-2 15:04:05",
	"2006/1/2",
}

// ParseDate parses a calendar date and truncates it to midnight UTC.
// The second return is false for empty or unparseable input.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// FormatDate writes t as a calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
