package service

import (
	"errors"
	"fmt"
	"sort"

	"schoolku_backend/internals/features/academics/timetables/model"
	"schoolku_backend/internals/helpers/dbtime"
)

var (
	ErrStartNotBeforeEnd = errors.New("start_time must be before end_time")
	ErrOutsideSchoolDay  = errors.New("slot is outside the school day")
)

// DayWindow bounds every slot, [Start, End].
type DayWindow struct {
	Start dbtime.Tod
	End   dbtime.Tod
}

func NewDayWindow(start, end string) (DayWindow, error) {
	s, err := dbtime.Parse(start)
	if err != nil {
		return DayWindow{}, fmt.Errorf("school day start: %w", err)
	}
	e, err := dbtime.Parse(end)
	if err != nil {
		return DayWindow{}, fmt.Errorf("school day end: %w", err)
	}
	if s.Minutes() >= e.Minutes() {
		return DayWindow{}, fmt.Errorf("school day start %s is not before end %s", s, e)
	}
	return DayWindow{Start: s, End: e}, nil
}

// CheckBounds validates one slot against itself and the window.
func (w DayWindow) CheckBounds(start, end dbtime.Tod) error {
	if start.Minutes() >= end.Minutes() {
		return ErrStartNotBeforeEnd
	}
	if start.Minutes() < w.Start.Minutes() || end.Minutes() > w.End.Minutes() {
		return fmt.Errorf("%w (%s-%s)", ErrOutsideSchoolDay, w.Start, w.End)
	}
	return nil
}

// Overlaps treats slots as half-open [start, end); back-to-back slots do not clash.
func Overlaps(aStart, aEnd, bStart, bEnd dbtime.Tod) bool {
	return aStart.Minutes() < bEnd.Minutes() && bStart.Minutes() < aEnd.Minutes()
}

// Clash reports the first existing slot overlapping candidate, nil when free.
// Slots on other days are ignored.
func Clash(candidate model.TimetableSlotModel, existing []model.TimetableSlotModel) *model.TimetableSlotModel {
	for i := range existing {
		e := &existing[i]
		if e.TimetableSlotID == candidate.TimetableSlotID || e.TimetableSlotDayOfWeek != candidate.TimetableSlotDayOfWeek {
			continue
		}
		if Overlaps(candidate.TimetableSlotStartTime, candidate.TimetableSlotEndTime, e.TimetableSlotStartTime, e.TimetableSlotEndTime) {
			return e
		}
	}
	return nil
}

// DaySlots is one column of the weekly view.
type DaySlots struct {
	DayOfWeek int                        `json:"day_of_week"`
	DayName   string                     `json:"day_name"`
	Slots     []model.TimetableSlotModel `json:"slots"`
}

var dayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Weekly groups slots by day (1..7, all days present) sorted by start time.
func Weekly(slots []model.TimetableSlotModel) []DaySlots {
	out := make([]DaySlots, 7)
	for d := 1; d <= 7; d++ {
		out[d-1] = DaySlots{DayOfWeek: d, DayName: dayNames[d], Slots: []model.TimetableSlotModel{}}
	}
	for _, s := range slots {
		if s.TimetableSlotDayOfWeek < 1 || s.TimetableSlotDayOfWeek > 7 {
			continue
		}
		out[s.TimetableSlotDayOfWeek-1].Slots = append(out[s.TimetableSlotDayOfWeek-1].Slots, s)
	}
	for i := range out {
		sort.SliceStable(out[i].Slots, func(a, b int) bool {
			return out[i].Slots[a].TimetableSlotStartTime.Minutes() < out[i].Slots[b].TimetableSlotStartTime.Minutes()
		})
	}
	return out
}
