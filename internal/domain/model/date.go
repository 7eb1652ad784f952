package model

import (
	"fmt"
	"time"
)

// DateLayout is the ISO-8601 calendar date layout used on the wire and on disk.
const DateLayout = "2006-01-02"

// Date is a calendar date with no time of day and no zone. Keeping the three
// fields separate means a stored date never shifts by a day when it is read
// back in a different zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the UTC calendar date of now.
func Today(now time.Time) Date {
	return DateOf(now.UTC())
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String formats the date as "YYYY-MM-DD".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
