package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusExcused Status = "excused"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

// AttendanceRecordModel is one student's mark for one date; (student, date) is unique.
type AttendanceRecordModel struct {
	AttendanceID        uuid.UUID `gorm:"column:attendance_id;type:uuid;primaryKey" json:"attendance_id"`
	AttendanceSchoolID  uuid.UUID `gorm:"column:attendance_school_id;type:uuid;not null;index:idx_attendance_school_date,priority:1" json:"attendance_school_id"`
	AttendanceSectionID uuid.UUID `gorm:"column:attendance_section_id;type:uuid;not null;index:idx_attendance_section_date,priority:1" json:"attendance_section_id"`
	AttendanceStudentID uuid.UUID `gorm:"column:attendance_student_id;type:uuid;not null;uniqueIndex:uq_attendance_student_date,priority:1" json:"attendance_student_id"`

	AttendanceDate   time.Time `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendance_student_date,priority:2;index:idx_attendance_school_date,priority:2;index:idx_attendance_section_date,priority:2" json:"attendance_date"`
	AttendanceStatus Status    `gorm:"column:attendance_status;type:varchar(10);not null" json:"attendance_status"`
	AttendanceNote   *string   `gorm:"column:attendance_note;type:text" json:"attendance_note,omitempty"`

	AttendanceCreatedAt time.Time `gorm:"column:attendance_created_at;not null;autoCreateTime" json:"attendance_created_at"`
	AttendanceUpdatedAt time.Time `gorm:"column:attendance_updated_at;not null;autoUpdateTime" json:"attendance_updated_at"`
}

func (AttendanceRecordModel) TableName() string { return "attendance_records" }

func (m *AttendanceRecordModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceID == uuid.Nil {
		m.AttendanceID = uuid.New()
	}
	return nil
}
