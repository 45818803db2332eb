package dbtime

import (
	"errors"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrWindowInverted = errors.New("from must not be after to")
	ErrWindowTooLong  = errors.New("date window too long")
)

// DateOf drops the clock and zone: the calendar date of t as 00:00 UTC.
// Every DATE column is written and compared in this form.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// EndOfDay is the last instant of d's calendar day in loc.
func EndOfDay(d time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), loc)
}

// Window is an inclusive range of calendar dates.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// ResolveWindow fills missing bounds: to defaults to today, from defaults to
// to-(defaultDays-1). A window longer than maxDays (when > 0) is rejected.
func ResolveWindow(from, to *time.Time, today time.Time, defaultDays, maxDays int) (Window, error) {
	if defaultDays < 1 {
		defaultDays = 1
	}
	w := Window{To: DateOf(today)}
	if to != nil {
		w.To = DateOf(*to)
	}
	if from != nil {
		w.From = DateOf(*from)
	} else {
		w.From = w.To.AddDate(0, 0, -(defaultDays - 1))
	}
	if w.From.After(w.To) {
		return Window{}, ErrWindowInverted
	}
	if maxDays > 0 && w.Days() > maxDays {
		return Window{}, ErrWindowTooLong
	}
	return w, nil
}

// Days counts calendar days, both ends included.
func (w Window) Days() int {
	return int(w.To.Sub(w.From).Hours()/24) + 1
}

func (w Window) Contains(d time.Time) bool {
	d = DateOf(d)
	return !d.Before(w.From) && !d.After(w.To)
}

// WorkingDays counts Mon–Fri dates in [start, end].
func WorkingDays(start, end time.Time) int {
	start, end = DateOf(start), DateOf(end)
	if start.After(end) {
		return 0
	}
	n := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}

// DaysIn returns the number of days of month m in year y.
func DaysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampedDate builds y-m-day, pulling day back to the month's last day.
func ClampedDate(y int, m time.Month, day int) time.Time {
	if day < 1 {
		day = 1
	}
	if last := DaysIn(y, m); day > last {
		day = last
	}
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// MonthStart is the first day of d's month.
func MonthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthKey formats d as "YYYY-MM".
func MonthKey(d time.Time) string { return d.Format("2006-01") }

// DaysLate counts whole days from due to at (0 when not late).
func DaysLate(due, at time.Time) int {
	due, at = DateOf(due), DateOf(at)
	if !at.After(due) {
		return 0
	}
	return int(at.Sub(due).Hours() / 24)
}
