package utils

import (
	"time"
)

// DateLayout is the calendar-day format used on the wire and in storage
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string in local time
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// DateElapsed reports whether the given calendar day has fully passed:
// strictly before today, or equal to today with the current local time at or
// past the cutoff hour.
func DateElapsed(date string, now time.Time, cutoffHour int) bool {
	d, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		// Malformed dates never reach storage through the booking form;
		// treat anything unparseable as not elapsed rather than sweeping it.
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return true
	}
	return d.Equal(today) && now.Hour() >= cutoffHour
}
