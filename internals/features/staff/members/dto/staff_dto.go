package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/staff/members/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
)

type CreateStaffRequest struct {
	EmployeeNo string  `json:"staff_employee_no" form:"staff_employee_no" validate:"required,max=40"`
	FullName   string  `json:"staff_full_name" form:"staff_full_name" validate:"required,min=2,max=150"`
	Role       string  `json:"staff_role" form:"staff_role" validate:"required,oneof=teacher admin accountant librarian support"`
	Department *string `json:"staff_department" form:"staff_department" validate:"omitempty,max=80"`
	Email      *string `json:"staff_email" form:"staff_email" validate:"omitempty,email,max=150"`
	Phone      *string `json:"staff_phone" form:"staff_phone" validate:"omitempty,max=30"`
	JoinDate   *string `json:"staff_join_date" form:"staff_join_date" validate:"omitempty,datetime=2006-01-02"`
	IsActive   *bool   `json:"staff_is_active" form:"staff_is_active"`
}

func (r CreateStaffRequest) ToModel(schoolID uuid.UUID, today time.Time) *model.StaffModel {
	m := &model.StaffModel{
		StaffSchoolID:   schoolID,
		StaffEmployeeNo: strings.TrimSpace(r.EmployeeNo),
		StaffFullName:   strings.TrimSpace(r.FullName),
		StaffRole:       model.Role(r.Role),
		StaffDepartment: helper.TrimPtr(r.Department),
		StaffEmail:      lowerPtr(r.Email),
		StaffPhone:      helper.TrimPtr(r.Phone),
		StaffJoinDate:   dbtime.DateOf(today),
		StaffIsActive:   true,
	}
	if r.JoinDate != nil {
		if d, err := dbtime.ParseDate(*r.JoinDate); err == nil {
			m.StaffJoinDate = d
		}
	}
	if r.IsActive != nil {
		m.StaffIsActive = *r.IsActive
	}
	return m
}

type UpdateStaffRequest struct {
	EmployeeNo *string `json:"staff_employee_no" form:"staff_employee_no" validate:"omitempty,min=1,max=40"`
	FullName   *string `json:"staff_full_name" form:"staff_full_name" validate:"omitempty,min=2,max=150"`
	Role       *string `json:"staff_role" form:"staff_role" validate:"omitempty,oneof=teacher admin accountant librarian support"`
	Department *string `json:"staff_department" form:"staff_department" validate:"omitempty,max=80"`
	Email      *string `json:"staff_email" form:"staff_email" validate:"omitempty,email,max=150"`
	Phone      *string `json:"staff_phone" form:"staff_phone" validate:"omitempty,max=30"`
	JoinDate   *string `json:"staff_join_date" form:"staff_join_date" validate:"omitempty,datetime=2006-01-02"`
	IsActive   *bool   `json:"staff_is_active" form:"staff_is_active"`
}

func (r UpdateStaffRequest) ApplyToModel(m *model.StaffModel) {
	if r.EmployeeNo != nil {
		m.StaffEmployeeNo = strings.TrimSpace(*r.EmployeeNo)
	}
	if r.FullName != nil {
		m.StaffFullName = strings.TrimSpace(*r.FullName)
	}
	if r.Role != nil {
		m.StaffRole = model.Role(*r.Role)
	}
	if r.Department != nil {
		m.StaffDepartment = helper.TrimPtr(r.Department)
	}
	if r.Email != nil {
		m.StaffEmail = lowerPtr(r.Email)
	}
	if r.Phone != nil {
		m.StaffPhone = helper.TrimPtr(r.Phone)
	}
	if r.JoinDate != nil {
		if d, err := dbtime.ParseDate(*r.JoinDate); err == nil {
			m.StaffJoinDate = d
		}
	}
	if r.IsActive != nil {
		m.StaffIsActive = *r.IsActive
	}
}

type ListStaffQuery struct {
	Role       string `query:"role"`
	Department string `query:"department"`
	Q          string `query:"q"`
}

type StaffResponse struct {
	StaffID         uuid.UUID `json:"staff_id"`
	StaffSchoolID   uuid.UUID `json:"staff_school_id"`
	StaffEmployeeNo string    `json:"staff_employee_no"`
	StaffFullName   string    `json:"staff_full_name"`
	StaffRole       string    `json:"staff_role"`
	StaffDepartment *string   `json:"staff_department,omitempty"`
	StaffEmail      *string   `json:"staff_email,omitempty"`
	StaffPhone      *string   `json:"staff_phone,omitempty"`
	StaffJoinDate   string    `json:"staff_join_date"`
	StaffIsActive   bool      `json:"staff_is_active"`
	StaffCreatedAt  time.Time `json:"staff_created_at"`
	StaffUpdatedAt  time.Time `json:"staff_updated_at"`
}

func FromModel(m *model.StaffModel) StaffResponse {
	return StaffResponse{
		StaffID:         m.StaffID,
		StaffSchoolID:   m.StaffSchoolID,
		StaffEmployeeNo: m.StaffEmployeeNo,
		StaffFullName:   m.StaffFullName,
		StaffRole:       string(m.StaffRole),
		StaffDepartment: m.StaffDepartment,
		StaffEmail:      m.StaffEmail,
		StaffPhone:      m.StaffPhone,
		StaffJoinDate:   m.StaffJoinDate.Format(dbtime.DateLayout),
		StaffIsActive:   m.StaffIsActive,
		StaffCreatedAt:  m.StaffCreatedAt,
		StaffUpdatedAt:  m.StaffUpdatedAt,
	}
}

func lowerPtr(s *string) *string {
	v := helper.TrimPtr(s)
	if v == nil {
		return nil
	}
	l := strings.ToLower(*v)
	return &l
}
