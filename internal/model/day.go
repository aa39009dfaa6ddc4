package model

import (
	"errors"
	"strings"
	"time"
)

// DayLayout is the storage and wire format of a calendar day.
const DayLayout = "2006-01-02"

// ErrInvalidDay is returned by ParseDay when the input is not a YYYY-MM-DD date.
var ErrInvalidDay = errors.New("invalid day")

// ParseDay parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDay(s string) (time.Time, error) {
	d, err := time.Parse(DayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDay
	}
	return d, nil
}

// FormatDay renders t as YYYY-MM-DD.  Values are always written to the
// store through this function so that SQLite and MySQL compare the same text.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Days returns every day of the inclusive range [from, to].  An inverted
// range yields nil.
func Days(from, to time.Time) []time.Time {
	from, to = Day(from), Day(to)
	if to.Before(from) {
		return nil
	}
	var out []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// DaysBetween returns the number of whole days from a to b (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// Range is an inclusive span of calendar days.
type Range struct {
	From time.Time
	To   time.Time
}

// Contains reports whether d falls within the range.
func (r Range) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(Day(r.From)) && !d.After(Day(r.To))
}

// Valid reports whether both bounds are set and From is not after To.
func (r Range) Valid() bool {
	return !r.From.IsZero() && !r.To.IsZero() && !Day(r.To).Before(Day(r.From))
}
