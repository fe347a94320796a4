package handlers

import (
	"strings"
	"time"
)

// --------------------------------------------------
// Datas recebidas em query string
// --------------------------------------------------

// parseDayIn reads a YYYY-MM-DD filter as midnight in loc.
func parseDayIn(loc *time.Location, s string) (time.Time, bool) {
	d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// parseAfter reads the chat polling cursor. Empty means from the start.
func parseAfter(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
