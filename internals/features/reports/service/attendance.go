package service

import (
	"github.com/google/uuid"

	attModel "schoolku_backend/internals/features/academics/attendance/model"
	attSvc "schoolku_backend/internals/features/academics/attendance/service"
	studentModel "schoolku_backend/internals/features/academics/students/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
)

type StudentAttendance struct {
	StudentID   uuid.UUID `json:"student_id"`
	StudentName string    `json:"student_name"`
	SectionID   uuid.UUID `json:"section_id"`
	attSvc.Counts
}

type StatusShare struct {
	Status string  `json:"status"`
	Count  int     `json:"count"`
	Share  float64 `json:"share"`
}

type AttendanceReport struct {
	Window    dbtime.Window       `json:"window"`
	SectionID *uuid.UUID          `json:"section_id,omitempty"`
	Overall   attSvc.Counts       `json:"overall"`
	Breakdown []StatusShare       `json:"breakdown"`
	Students  []StudentAttendance `json:"students"`
	Trend     []attSvc.DayPoint   `json:"trend"`
}

var breakdownOrder = []attModel.Status{
	attModel.StatusPresent, attModel.StatusLate, attModel.StatusExcused, attModel.StatusAbsent,
}

// BuildAttendanceReport keeps the order of students; records of students not
// in the list are dropped. Records outside w are ignored.
func BuildAttendanceReport(students []studentModel.StudentModel, records []attModel.AttendanceRecordModel, w dbtime.Window) AttendanceReport {
	r := AttendanceReport{
		Window:   w,
		Students: make([]StudentAttendance, len(students)),
	}
	idx := make(map[uuid.UUID]int, len(students))
	for i := range students {
		idx[students[i].StudentID] = i
		r.Students[i] = StudentAttendance{
			StudentID:   students[i].StudentID,
			StudentName: students[i].StudentFullName,
			SectionID:   students[i].StudentSectionID,
		}
	}

	kept := make([]attModel.AttendanceRecordModel, 0, len(records))
	for i := range records {
		rec := &records[i]
		j, ok := idx[rec.AttendanceStudentID]
		if !ok || !w.Contains(rec.AttendanceDate) {
			continue
		}
		r.Students[j].Add(rec.AttendanceStatus)
		r.Overall.Add(rec.AttendanceStatus)
		kept = append(kept, *rec)
	}

	byStatus := map[attModel.Status]int{
		attModel.StatusPresent: r.Overall.Present,
		attModel.StatusLate:    r.Overall.Late,
		attModel.StatusExcused: r.Overall.Excused,
		attModel.StatusAbsent:  r.Overall.Absent,
	}
	r.Breakdown = make([]StatusShare, 0, len(breakdownOrder))
	for _, s := range breakdownOrder {
		r.Breakdown = append(r.Breakdown, StatusShare{
			Status: string(s),
			Count:  byStatus[s],
			Share:  helper.Percent(float64(byStatus[s]), float64(r.Overall.TotalDays)),
		})
	}
	r.Trend = attSvc.DailyTrend(kept, w)
	return r
}
