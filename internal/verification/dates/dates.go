// Package dates holds the calendar arithmetic shared by the validation and
// eligibility engines. All values are treated as UTC calendar dates.
package dates

import (
	"errors"
	"strings"
	"time"
)

const ISOLayout = "2006-01-02"

var ErrUnparseable = errors.New("unparseable date")

var layouts = []string{
	ISOLayout,
	"2006/01/02",
	time.RFC3339,
}

// Parse reads an ISO-like date and returns midnight UTC of that day.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrUnparseable
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Truncate(t), nil
		}
	}
	return time.Time{}, ErrUnparseable
}

// Truncate drops the time of day.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthsBetween counts whole calendar months from `from` to `to`.
// A month only counts once its day of month has been reached. The result is
// negative when `to` is before `from`.
func MonthsBetween(from, to time.Time) int {
	from, to = Truncate(from), Truncate(to)
	if to.Before(from) {
		return -MonthsBetween(to, from)
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()-from.Month())
	if to.Day() < from.Day() {
		months--
	}
	return months
}

// AgeAt returns completed years between dob and at.
func AgeAt(dob, at time.Time) int {
	dob, at = Truncate(dob), Truncate(at)
	age := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		age--
	}
	return age
}
