// Package wallclock parses and formats the date and time strings stored on
// reservations.  All values are local wall-clock readings for a single
// restaurant: they are parsed in a fixed zone so that adding minutes never
// crosses a DST transition.
package wallclock

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the ISO calendar date format used for reservation dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the zero-padded 24-hour format used for reservation times.
	TimeLayout = "15:04"

	dateTimeLayout = DateLayout + " " + TimeLayout
)

// Business hours accepted for new reservations (inclusive).
const (
	OpeningTime = "06:00"
	ClosingTime = "22:00"
)

// zone is fixed so that no timezone conversion or DST adjustment happens.
var zone = time.UTC

// ParseDateTime combines a yyyy-MM-dd date and an HH:mm time into an instant.
func ParseDateTime(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(dateTimeLayout, date+" "+clock, zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q %q: %w", date, clock, err)
	}
	return t, nil
}

// AddMinutes returns t shifted by n minutes (n may be negative).
func AddMinutes(t time.Time, n int) time.Time {
	return t.Add(time.Duration(n) * time.Minute)
}

// WithinInterval reports whether t lies in [start, end], both ends included.
func WithinInterval(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// FormatTime renders the time-of-day part of t as HH:mm.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// FormatDate renders the date part of t as yyyy-MM-dd.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidDate reports whether s is a well-formed yyyy-MM-dd date.
func ValidDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.ParseInLocation(DateLayout, s, zone)
	return err == nil
}

// ValidTime reports whether s is a zero-padded HH:mm time.
func ValidTime(s string) bool {
	if len(s) != len(TimeLayout) {
		return false
	}
	_, err := time.ParseInLocation(TimeLayout, s, zone)
	return err == nil
}

// WithinBusinessHours reports whether a valid HH:mm time falls between
// OpeningTime and ClosingTime.  Zero-padded times compare lexically.
func WithinBusinessHours(clock string) bool {
	return ValidTime(clock) && clock >= OpeningTime && clock <= ClosingTime
}

// In returns now expressed in the reservation zone, so that its date and
// time-of-day can be compared with parsed reservation instants.  The
// wall-clock reading of now in loc is kept as-is.
func In(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	l := now.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), l.Hour(), l.Minute(), l.Second(), l.Nanosecond(), zone)
}
