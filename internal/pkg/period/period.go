// Package period resolves a (month, year) pair into the inclusive calendar
// window used to decide which compensation records apply to a payroll run.
package period

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid payroll period")

const minYear = 1900

// Window is an inclusive [First, Last] range of calendar dates. Both bounds
// are midnight UTC so comparisons never drift across time zones.
type Window struct {
	Month int
	Year  int
	First time.Time
	Last  time.Time
}

// New builds the window for the given month. month must be in [1,12] and
// year must be at least 1900.
func New(month, year int) (Window, error) {
	if month < 1 || month > 12 {
		return Window{}, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidPeriod)
	}
	if year < minYear {
		return Window{}, fmt.Errorf("%w: year must be %d or later", ErrInvalidPeriod, minYear)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return Window{
		Month: month,
		Year:  year,
		First: first,
		Last:  first.AddDate(0, 1, -1),
	}, nil
}

// Current returns the window containing now.
func Current(now time.Time) Window {
	now = now.UTC()
	w, _ := New(int(now.Month()), now.Year())
	return w
}

// Date truncates t to its calendar date in UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether the calendar date of t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	d := Date(t)
	return !d.Before(w.First) && !d.After(w.Last)
}

// Overlaps reports whether the interval [from, to] intersects the window.
// A nil bound is open.
func (w Window) Overlaps(from, to *time.Time) bool {
	if from != nil && Date(*from).After(w.Last) {
		return false
	}
	if to != nil && Date(*to).Before(w.First) {
		return false
	}
	return true
}

// EndsOnOrAfter reports whether t is on or before the last day of the
// window, i.e. a record dated t is already in effect for this period.
func (w Window) EndsOnOrAfter(t time.Time) bool {
	return !Date(t).After(w.Last)
}

// Days returns the number of calendar days in the window.
func (w Window) Days() int {
	return w.Last.Day()
}

func (w Window) String() string {
	return fmt.Sprintf("%04d-%02d", w.Year, w.Month)
}
