package service

import (
	"errors"
	"time"

	"schoolku_backend/internals/features/staff/leaves/model"
	"schoolku_backend/internals/helpers/dbtime"
)

var (
	ErrRangeInverted = errors.New("end date must not be before start date")
	ErrHalfDayRange  = errors.New("a half day leave must start and end on the same day")
	ErrNoWorkingDays = errors.New("leave range has no working days")
	ErrOverlap       = errors.New("leave overlaps another pending or approved leave")
	ErrNotPending    = errors.New("leave is no longer pending")
)

// Duration counts Mon-Fri days in [start, end]; a half day counts 0.5.
func Duration(start, end time.Time, halfDay bool) (float64, error) {
	start, end = dbtime.DateOf(start), dbtime.DateOf(end)
	if end.Before(start) {
		return 0, ErrRangeInverted
	}
	if halfDay && !start.Equal(end) {
		return 0, ErrHalfDayRange
	}
	n := dbtime.WorkingDays(start, end)
	if n == 0 {
		return 0, ErrNoWorkingDays
	}
	if halfDay {
		return 0.5, nil
	}
	return float64(n), nil
}

// Decide moves a pending leave to approved or rejected.
func Decide(m *model.StaffLeaveModel, to model.LeaveStatus, note *string, at time.Time) error {
	if m.StaffLeaveStatus != model.LeavePending {
		return ErrNotPending
	}
	m.StaffLeaveStatus = to
	m.StaffLeaveDecidedAt = &at
	m.StaffLeaveDecisionNote = note
	return nil
}
