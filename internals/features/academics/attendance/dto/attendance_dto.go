package dto

import (
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/academics/attendance/model"
	"schoolku_backend/internals/features/academics/attendance/service"
	"schoolku_backend/internals/helpers/dbtime"
)

type MarkItem struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=present absent late excused"`
	Note      *string   `json:"note" validate:"omitempty,max=500"`
}

// MarkRequest records one section's attendance for one date.
type MarkRequest struct {
	SectionID uuid.UUID  `json:"section_id" validate:"required"`
	Date      string     `json:"date" validate:"required,datetime=2006-01-02"`
	Records   []MarkItem `json:"records" validate:"required,min=1,dive"`
}

type AttendanceResponse struct {
	AttendanceID          uuid.UUID `json:"attendance_id"`
	AttendanceSectionID   uuid.UUID `json:"attendance_section_id"`
	AttendanceStudentID   uuid.UUID `json:"attendance_student_id"`
	AttendanceStudentName string    `json:"attendance_student_name,omitempty"`
	AttendanceDate        string    `json:"attendance_date"`
	AttendanceStatus      string    `json:"attendance_status"`
	AttendanceNote        *string   `json:"attendance_note,omitempty"`
	AttendanceUpdatedAt   time.Time `json:"attendance_updated_at"`
}

func FromModel(m *model.AttendanceRecordModel) AttendanceResponse {
	return AttendanceResponse{
		AttendanceID:        m.AttendanceID,
		AttendanceSectionID: m.AttendanceSectionID,
		AttendanceStudentID: m.AttendanceStudentID,
		AttendanceDate:      m.AttendanceDate.Format(dbtime.DateLayout),
		AttendanceStatus:    string(m.AttendanceStatus),
		AttendanceNote:      m.AttendanceNote,
		AttendanceUpdatedAt: m.AttendanceUpdatedAt,
	}
}

type StudentSummaryResponse struct {
	StudentID   uuid.UUID          `json:"student_id"`
	StudentName string             `json:"student_name"`
	Window      dbtime.Window      `json:"window"`
	Counts      service.Counts     `json:"counts"`
	Trend       []service.DayPoint `json:"trend"`
}
