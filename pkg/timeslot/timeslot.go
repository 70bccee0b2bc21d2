// Package timeslot implements time-of-day window arithmetic for reservation
// slots. Times are zero-padded HH:MM strings and dates YYYY-MM-DD strings,
// so lexicographic comparison matches chronological order and values round-
// trip through storage unchanged.
package timeslot

import (
	"errors"
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	minutesPerDay = 24 * 60
)

var (
	ErrInvalidTime = errors.New("time of day must be HH:MM")
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

	// ErrCrossesMidnight is returned when a slot would end past 24:00.
	// Restaurant hours fit within a single calendar day; a request like
	// 23:00 with a 2 hour slot is rejected instead of silently clamped.
	ErrCrossesMidnight = errors.New("slot end time crosses midnight")
)

// ParseTime returns the minutes since midnight for a HH:MM value.
func ParseTime(s string) (int, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ParseDate validates a YYYY-MM-DD value and returns it as a calendar day in
// the given location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// FormatMinutes renders minutes since midnight back to HH:MM.
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// End computes the slot end time for a start time and duration. Durations
// are truncated to whole minutes. The end may be exactly 24:00 worth of
// minutes only when it lands on midnight itself, which is rejected along
// with anything later.
func End(start string, duration time.Duration) (string, error) {
	startMin, err := ParseTime(start)
	if err != nil {
		return "", err
	}
	if duration <= 0 {
		return "", fmt.Errorf("slot duration must be positive, got %s", duration)
	}

	endMin := startMin + int(duration.Minutes())
	if endMin >= minutesPerDay {
		return "", fmt.Errorf("%w: %s + %s", ErrCrossesMidnight, start, duration)
	}
	return FormatMinutes(endMin), nil
}

// Overlaps reports whether two half-open [start, end) windows intersect.
// Back-to-back slots (a ends exactly when b starts) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}

// At combines a calendar date and a time of day into an instant in loc.
func At(date, timeOfDay string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := ParseTime(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(minutes) * time.Minute), nil
}
