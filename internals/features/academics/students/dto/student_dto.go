package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/academics/students/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
)

/* ===================== REQUESTS ===================== */

type CreateStudentRequest struct {
	AdmissionNo   string    `json:"student_admission_no" form:"student_admission_no" validate:"required,max=40"`
	FullName      string    `json:"student_full_name" form:"student_full_name" validate:"required,min=2,max=150"`
	Gender        string    `json:"student_gender" form:"student_gender" validate:"required,oneof=male female"`
	DateOfBirth   *string   `json:"student_date_of_birth" form:"student_date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	SectionID     uuid.UUID `json:"student_section_id" form:"student_section_id" validate:"required"`
	GuardianName  *string   `json:"student_guardian_name" form:"student_guardian_name" validate:"omitempty,max=150"`
	GuardianPhone *string   `json:"student_guardian_phone" form:"student_guardian_phone" validate:"omitempty,max=30"`
	EnrolledAt    *string   `json:"student_enrolled_at" form:"student_enrolled_at" validate:"omitempty,datetime=2006-01-02"`
	IsActive      *bool     `json:"student_is_active" form:"student_is_active"`
}

// ToModel builds the row; today fills a missing enrollment date.
func (r CreateStudentRequest) ToModel(schoolID uuid.UUID, today time.Time) *model.StudentModel {
	m := &model.StudentModel{
		StudentSchoolID:      schoolID,
		StudentSectionID:     r.SectionID,
		StudentAdmissionNo:   strings.TrimSpace(r.AdmissionNo),
		StudentFullName:      strings.TrimSpace(r.FullName),
		StudentGender:        model.Gender(r.Gender),
		StudentDateOfBirth:   parseDatePtr(r.DateOfBirth),
		StudentGuardianName:  helper.TrimPtr(r.GuardianName),
		StudentGuardianPhone: helper.TrimPtr(r.GuardianPhone),
		StudentEnrolledAt:    dbtime.DateOf(today),
		StudentIsActive:      true,
	}
	if d := parseDatePtr(r.EnrolledAt); d != nil {
		m.StudentEnrolledAt = *d
	}
	if r.IsActive != nil {
		m.StudentIsActive = *r.IsActive
	}
	return m
}

type UpdateStudentRequest struct {
	AdmissionNo   *string    `json:"student_admission_no" form:"student_admission_no" validate:"omitempty,min=1,max=40"`
	FullName      *string    `json:"student_full_name" form:"student_full_name" validate:"omitempty,min=2,max=150"`
	Gender        *string    `json:"student_gender" form:"student_gender" validate:"omitempty,oneof=male female"`
	DateOfBirth   *string    `json:"student_date_of_birth" form:"student_date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	SectionID     *uuid.UUID `json:"student_section_id" form:"student_section_id"`
	GuardianName  *string    `json:"student_guardian_name" form:"student_guardian_name" validate:"omitempty,max=150"`
	GuardianPhone *string    `json:"student_guardian_phone" form:"student_guardian_phone" validate:"omitempty,max=30"`
	EnrolledAt    *string    `json:"student_enrolled_at" form:"student_enrolled_at" validate:"omitempty,datetime=2006-01-02"`
	IsActive      *bool      `json:"student_is_active" form:"student_is_active"`
}

func (r UpdateStudentRequest) ApplyToModel(m *model.StudentModel) {
	if r.AdmissionNo != nil {
		m.StudentAdmissionNo = strings.TrimSpace(*r.AdmissionNo)
	}
	if r.FullName != nil {
		m.StudentFullName = strings.TrimSpace(*r.FullName)
	}
	if r.Gender != nil {
		m.StudentGender = model.Gender(*r.Gender)
	}
	if d := parseDatePtr(r.DateOfBirth); d != nil {
		m.StudentDateOfBirth = d
	}
	if r.SectionID != nil && *r.SectionID != uuid.Nil {
		m.StudentSectionID = *r.SectionID
	}
	if r.GuardianName != nil {
		m.StudentGuardianName = helper.TrimPtr(r.GuardianName)
	}
	if r.GuardianPhone != nil {
		m.StudentGuardianPhone = helper.TrimPtr(r.GuardianPhone)
	}
	if d := parseDatePtr(r.EnrolledAt); d != nil {
		m.StudentEnrolledAt = *d
	}
	if r.IsActive != nil {
		m.StudentIsActive = *r.IsActive
	}
}

type ListStudentQuery struct {
	SectionID string `query:"section_id"`
	Q         string `query:"q"`
	IsActive  string `query:"is_active"`
}

/* ===================== RESPONSES ===================== */

type StudentResponse struct {
	StudentID            uuid.UUID `json:"student_id"`
	StudentSchoolID      uuid.UUID `json:"student_school_id"`
	StudentSectionID     uuid.UUID `json:"student_section_id"`
	StudentSectionLabel  string    `json:"student_section_label,omitempty"`
	StudentAdmissionNo   string    `json:"student_admission_no"`
	StudentFullName      string    `json:"student_full_name"`
	StudentGender        string    `json:"student_gender"`
	StudentDateOfBirth   *string   `json:"student_date_of_birth,omitempty"`
	StudentGuardianName  *string   `json:"student_guardian_name,omitempty"`
	StudentGuardianPhone *string   `json:"student_guardian_phone,omitempty"`
	StudentEnrolledAt    string    `json:"student_enrolled_at"`
	StudentIsActive      bool      `json:"student_is_active"`
	StudentCreatedAt     time.Time `json:"student_created_at"`
	StudentUpdatedAt     time.Time `json:"student_updated_at"`
}

func FromModel(m *model.StudentModel) StudentResponse {
	resp := StudentResponse{
		StudentID:            m.StudentID,
		StudentSchoolID:      m.StudentSchoolID,
		StudentSectionID:     m.StudentSectionID,
		StudentAdmissionNo:   m.StudentAdmissionNo,
		StudentFullName:      m.StudentFullName,
		StudentGender:        string(m.StudentGender),
		StudentGuardianName:  m.StudentGuardianName,
		StudentGuardianPhone: m.StudentGuardianPhone,
		StudentEnrolledAt:    m.StudentEnrolledAt.Format(dbtime.DateLayout),
		StudentIsActive:      m.StudentIsActive,
		StudentCreatedAt:     m.StudentCreatedAt,
		StudentUpdatedAt:     m.StudentUpdatedAt,
	}
	if m.StudentDateOfBirth != nil {
		s := m.StudentDateOfBirth.Format(dbtime.DateLayout)
		resp.StudentDateOfBirth = &s
	}
	return resp
}

func parseDatePtr(s *string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	d, err := dbtime.ParseDate(*s)
	if err != nil {
		return nil
	}
	return &d
}
