package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveType string

const (
	LeaveSick   LeaveType = "sick"
	LeaveCasual LeaveType = "casual"
	LeaveAnnual LeaveType = "annual"
	LeaveUnpaid LeaveType = "unpaid"
)

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

func (s LeaveStatus) Valid() bool {
	return s == LeavePending || s == LeaveApproved || s == LeaveRejected
}

// Blocking statuses are the ones a new request must not overlap.
var Blocking = []LeaveStatus{LeavePending, LeaveApproved}

type StaffLeaveModel struct {
	StaffLeaveID       uuid.UUID `gorm:"column:staff_leave_id;type:uuid;primaryKey" json:"staff_leave_id"`
	StaffLeaveSchoolID uuid.UUID `gorm:"column:staff_leave_school_id;type:uuid;not null;index:idx_staff_leaves_school_status,priority:1" json:"staff_leave_school_id"`
	StaffLeaveStaffID  uuid.UUID `gorm:"column:staff_leave_staff_id;type:uuid;not null;index:idx_staff_leaves_staff_range,priority:1" json:"staff_leave_staff_id"`

	StaffLeaveType      LeaveType `gorm:"column:staff_leave_type;type:varchar(10);not null" json:"staff_leave_type"`
	StaffLeaveStartDate time.Time `gorm:"column:staff_leave_start_date;type:date;not null;index:idx_staff_leaves_staff_range,priority:2" json:"staff_leave_start_date"`
	StaffLeaveEndDate   time.Time `gorm:"column:staff_leave_end_date;type:date;not null;index:idx_staff_leaves_staff_range,priority:3" json:"staff_leave_end_date"`
	StaffLeaveHalfDay   bool      `gorm:"column:staff_leave_half_day;not null" json:"staff_leave_half_day"`
	StaffLeaveDays      float64   `gorm:"column:staff_leave_days;type:numeric(5,1);not null" json:"staff_leave_days"`
	StaffLeaveReason    *string   `gorm:"column:staff_leave_reason;type:text" json:"staff_leave_reason,omitempty"`

	StaffLeaveStatus       LeaveStatus `gorm:"column:staff_leave_status;type:varchar(10);not null;index:idx_staff_leaves_school_status,priority:2" json:"staff_leave_status"`
	StaffLeaveDecidedAt    *time.Time  `gorm:"column:staff_leave_decided_at" json:"staff_leave_decided_at,omitempty"`
	StaffLeaveDecisionNote *string     `gorm:"column:staff_leave_decision_note;type:text" json:"staff_leave_decision_note,omitempty"`

	StaffLeaveCreatedAt time.Time      `gorm:"column:staff_leave_created_at;not null;autoCreateTime" json:"staff_leave_created_at"`
	StaffLeaveUpdatedAt time.Time      `gorm:"column:staff_leave_updated_at;not null;autoUpdateTime" json:"staff_leave_updated_at"`
	StaffLeaveDeletedAt gorm.DeletedAt `gorm:"column:staff_leave_deleted_at;index" json:"-"`
}

func (StaffLeaveModel) TableName() string { return "staff_leaves" }

func (m *StaffLeaveModel) BeforeCreate(tx *gorm.DB) error {
	if m.StaffLeaveID == uuid.Nil {
		m.StaffLeaveID = uuid.New()
	}
	if m.StaffLeaveStatus == "" {
		m.StaffLeaveStatus = LeavePending
	}
	return nil
}
