package dto

import (
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/staff/leaves/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
)

type CreateLeaveRequest struct {
	StaffID   uuid.UUID `json:"staff_leave_staff_id" form:"staff_leave_staff_id" validate:"required"`
	Type      string    `json:"staff_leave_type" form:"staff_leave_type" validate:"required,oneof=sick casual annual unpaid"`
	StartDate string    `json:"staff_leave_start_date" form:"staff_leave_start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string    `json:"staff_leave_end_date" form:"staff_leave_end_date" validate:"required,datetime=2006-01-02"`
	HalfDay   bool      `json:"staff_leave_half_day" form:"staff_leave_half_day"`
	Reason    *string   `json:"staff_leave_reason" form:"staff_leave_reason" validate:"omitempty,max=1000"`
}

// ToModel leaves Days for the caller; it depends on the working-day count.
func (r CreateLeaveRequest) ToModel(schoolID uuid.UUID) *model.StaffLeaveModel {
	start, _ := dbtime.ParseDate(r.StartDate)
	end, _ := dbtime.ParseDate(r.EndDate)
	return &model.StaffLeaveModel{
		StaffLeaveSchoolID:  schoolID,
		StaffLeaveStaffID:   r.StaffID,
		StaffLeaveType:      model.LeaveType(r.Type),
		StaffLeaveStartDate: start,
		StaffLeaveEndDate:   end,
		StaffLeaveHalfDay:   r.HalfDay,
		StaffLeaveReason:    helper.TrimPtr(r.Reason),
		StaffLeaveStatus:    model.LeavePending,
	}
}

type DecisionRequest struct {
	Note *string `json:"staff_leave_decision_note" form:"staff_leave_decision_note" validate:"omitempty,max=1000"`
}

type LeaveResponse struct {
	StaffLeaveID           uuid.UUID  `json:"staff_leave_id"`
	StaffLeaveStaffID      uuid.UUID  `json:"staff_leave_staff_id"`
	StaffLeaveStaffName    string     `json:"staff_leave_staff_name,omitempty"`
	StaffLeaveType         string     `json:"staff_leave_type"`
	StaffLeaveStartDate    string     `json:"staff_leave_start_date"`
	StaffLeaveEndDate      string     `json:"staff_leave_end_date"`
	StaffLeaveHalfDay      bool       `json:"staff_leave_half_day"`
	StaffLeaveDays         float64    `json:"staff_leave_days"`
	StaffLeaveReason       *string    `json:"staff_leave_reason,omitempty"`
	StaffLeaveStatus       string     `json:"staff_leave_status"`
	StaffLeaveDecidedAt    *time.Time `json:"staff_leave_decided_at,omitempty"`
	StaffLeaveDecisionNote *string    `json:"staff_leave_decision_note,omitempty"`
	StaffLeaveCreatedAt    time.Time  `json:"staff_leave_created_at"`
}

func FromModel(m *model.StaffLeaveModel) LeaveResponse {
	return LeaveResponse{
		StaffLeaveID:           m.StaffLeaveID,
		StaffLeaveStaffID:      m.StaffLeaveStaffID,
		StaffLeaveType:         string(m.StaffLeaveType),
		StaffLeaveStartDate:    m.StaffLeaveStartDate.Format(dbtime.DateLayout),
		StaffLeaveEndDate:      m.StaffLeaveEndDate.Format(dbtime.DateLayout),
		StaffLeaveHalfDay:      m.StaffLeaveHalfDay,
		StaffLeaveDays:         m.StaffLeaveDays,
		StaffLeaveReason:       m.StaffLeaveReason,
		StaffLeaveStatus:       string(m.StaffLeaveStatus),
		StaffLeaveDecidedAt:    m.StaffLeaveDecidedAt,
		StaffLeaveDecisionNote: m.StaffLeaveDecisionNote,
		StaffLeaveCreatedAt:    m.StaffLeaveCreatedAt,
	}
}
