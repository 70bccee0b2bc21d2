// Package clock abstracts "now" behind an interface so cutoff and past-date
// policy can be tested against a fixed time instead of the wall clock.
package clock

import (
	"time"

	"tably/pkg/timeslot"
)

type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in server-local time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Fixed always returns the same instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// IsPastDate reports whether date (YYYY-MM-DD) is strictly before the current
// calendar day in the clock's location. Today is not past.
func IsPastDate(c Clock, date string) (bool, error) {
	now := c.Now()
	day, err := timeslot.ParseDate(date, now.Location())
	if err != nil {
		return false, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return day.Before(today), nil
}

// CanModify reports whether a reservation starting at date+startTime may
// still be modified or cancelled: the start must be at least cutoff away
// from now. The same rule governs both updates and cancellations.
func CanModify(c Clock, date, startTime string, cutoff time.Duration) (bool, error) {
	now := c.Now()
	start, err := timeslot.At(date, startTime, now.Location())
	if err != nil {
		return false, err
	}
	return start.Sub(now) >= cutoff, nil
}
