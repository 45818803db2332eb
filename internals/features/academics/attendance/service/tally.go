package service

import (
	"sort"
	"time"

	"schoolku_backend/internals/features/academics/attendance/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
)

// Counts is an attendance rollup. TotalDays counts recorded days only;
// PresentDays is present + late.
type Counts struct {
	Present     int     `json:"present"`
	Absent      int     `json:"absent"`
	Late        int     `json:"late"`
	Excused     int     `json:"excused"`
	TotalDays   int     `json:"total_days"`
	PresentDays int     `json:"present_days"`
	Percentage  float64 `json:"percentage"`
}

func (c *Counts) Add(s model.Status) {
	switch s {
	case model.StatusPresent:
		c.Present++
	case model.StatusAbsent:
		c.Absent++
	case model.StatusLate:
		c.Late++
	case model.StatusExcused:
		c.Excused++
	default:
		return
	}
	c.TotalDays++
	c.PresentDays = c.Present + c.Late
	c.Percentage = Percentage(c.PresentDays, c.TotalDays)
}

// Percentage = present_days / total_days × 100, 2 decimals, 0 for no days.
func Percentage(presentDays, totalDays int) float64 {
	return helper.Percent(float64(presentDays), float64(totalDays))
}

// Tally rolls records up in one pass.
func Tally(records []model.AttendanceRecordModel) Counts {
	var c Counts
	for i := range records {
		c.Add(records[i].AttendanceStatus)
	}
	return c
}

// DayPoint is one point of a daily trend series.
type DayPoint struct {
	Date       string  `json:"date"`
	Present    int     `json:"present"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// DailyTrend emits one point per recorded date inside w, oldest first.
func DailyTrend(records []model.AttendanceRecordModel, w dbtime.Window) []DayPoint {
	byDay := map[time.Time]*Counts{}
	for i := range records {
		d := dbtime.DateOf(records[i].AttendanceDate)
		if !w.Contains(d) {
			continue
		}
		c, ok := byDay[d]
		if !ok {
			c = &Counts{}
			byDay[d] = c
		}
		c.Add(records[i].AttendanceStatus)
	}
	days := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	out := make([]DayPoint, 0, len(days))
	for _, d := range days {
		c := byDay[d]
		out = append(out, DayPoint{
			Date:       d.Format(dbtime.DateLayout),
			Present:    c.PresentDays,
			Total:      c.TotalDays,
			Percentage: c.Percentage,
		})
	}
	return out
}
