package repository

import (
	"time"
)

// timeLayout is the RFC3339 format for storing times in SQLite
const timeLayout = time.RFC3339

// parseTime parses a time string in RFC3339 format
func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// formatTime returns t formatted as RFC3339, using now for the zero time
func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format(timeLayout)
}

// boolToInt stores booleans as SQLite integers
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
