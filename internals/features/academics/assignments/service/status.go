package service

import (
	"time"

	"schoolku_backend/internals/helpers/dbtime"
)

const (
	StatusUpcoming = "upcoming"
	StatusOpen     = "open"
	StatusClosed   = "closed"
)

// Status is upcoming before assigned, closed after the due date, open otherwise.
func Status(today, assigned, due time.Time) string {
	today = dbtime.DateOf(today)
	switch {
	case today.Before(dbtime.DateOf(assigned)):
		return StatusUpcoming
	case today.After(dbtime.DateOf(due)):
		return StatusClosed
	default:
		return StatusOpen
	}
}

// IsLate: submitted after the last instant of the due date in loc.
func IsLate(submittedAt, due time.Time, loc *time.Location) bool {
	return submittedAt.After(dbtime.EndOfDay(due, loc))
}
