package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/academics/sections/model"
)

/* ===================== REQUESTS ===================== */

type CreateClassSectionRequest struct {
	ClassName       string     `json:"class_section_class_name" form:"class_section_class_name" validate:"required,max=80"`
	SectionName     string     `json:"class_section_name" form:"class_section_name" validate:"required,max=40"`
	AcademicYear    string     `json:"class_section_academic_year" form:"class_section_academic_year" validate:"required,max=20"`
	Capacity        *int       `json:"class_section_capacity" form:"class_section_capacity" validate:"omitempty,gt=0"`
	HomeroomStaffID *uuid.UUID `json:"class_section_homeroom_staff_id" form:"class_section_homeroom_staff_id" validate:"omitempty"`
}

func (r CreateClassSectionRequest) ToModel(schoolID uuid.UUID) *model.ClassSectionModel {
	return &model.ClassSectionModel{
		ClassSectionSchoolID:        schoolID,
		ClassSectionClassName:       strings.TrimSpace(r.ClassName),
		ClassSectionName:            strings.TrimSpace(r.SectionName),
		ClassSectionAcademicYear:    strings.TrimSpace(r.AcademicYear),
		ClassSectionCapacity:        r.Capacity,
		ClassSectionHomeroomStaffID: r.HomeroomStaffID,
	}
}

type UpdateClassSectionRequest struct {
	ClassName       *string    `json:"class_section_class_name" form:"class_section_class_name" validate:"omitempty,min=1,max=80"`
	SectionName     *string    `json:"class_section_name" form:"class_section_name" validate:"omitempty,min=1,max=40"`
	AcademicYear    *string    `json:"class_section_academic_year" form:"class_section_academic_year" validate:"omitempty,min=1,max=20"`
	Capacity        *int       `json:"class_section_capacity" form:"class_section_capacity" validate:"omitempty,gt=0"`
	HomeroomStaffID *uuid.UUID `json:"class_section_homeroom_staff_id" form:"class_section_homeroom_staff_id" validate:"omitempty"`
}

func (r UpdateClassSectionRequest) ApplyToModel(m *model.ClassSectionModel) {
	if r.ClassName != nil {
		m.ClassSectionClassName = strings.TrimSpace(*r.ClassName)
	}
	if r.SectionName != nil {
		m.ClassSectionName = strings.TrimSpace(*r.SectionName)
	}
	if r.AcademicYear != nil {
		m.ClassSectionAcademicYear = strings.TrimSpace(*r.AcademicYear)
	}
	if r.Capacity != nil {
		m.ClassSectionCapacity = r.Capacity
	}
	if r.HomeroomStaffID != nil {
		m.ClassSectionHomeroomStaffID = r.HomeroomStaffID
	}
}

// ListClassSectionQuery: filters for GET /class-sections
type ListClassSectionQuery struct {
	Q            string `query:"q"`
	AcademicYear string `query:"academic_year"`
	ClassName    string `query:"class_name"`
}

/* ===================== RESPONSES ===================== */

type ClassSectionResponse struct {
	ClassSectionID              uuid.UUID  `json:"class_section_id"`
	ClassSectionSchoolID        uuid.UUID  `json:"class_section_school_id"`
	ClassSectionClassName       string     `json:"class_section_class_name"`
	ClassSectionName            string     `json:"class_section_name"`
	ClassSectionLabel           string     `json:"class_section_label"`
	ClassSectionAcademicYear    string     `json:"class_section_academic_year"`
	ClassSectionCapacity        *int       `json:"class_section_capacity,omitempty"`
	ClassSectionHomeroomStaffID *uuid.UUID `json:"class_section_homeroom_staff_id,omitempty"`
	ClassSectionStudentCount    *int64     `json:"class_section_student_count,omitempty"`
	ClassSectionCreatedAt       time.Time  `json:"class_section_created_at"`
	ClassSectionUpdatedAt       time.Time  `json:"class_section_updated_at"`
}

func FromModel(m *model.ClassSectionModel) ClassSectionResponse {
	return ClassSectionResponse{
		ClassSectionID:              m.ClassSectionID,
		ClassSectionSchoolID:        m.ClassSectionSchoolID,
		ClassSectionClassName:       m.ClassSectionClassName,
		ClassSectionName:            m.ClassSectionName,
		ClassSectionLabel:           m.Label(),
		ClassSectionAcademicYear:    m.ClassSectionAcademicYear,
		ClassSectionCapacity:        m.ClassSectionCapacity,
		ClassSectionHomeroomStaffID: m.ClassSectionHomeroomStaffID,
		ClassSectionCreatedAt:       m.ClassSectionCreatedAt,
		ClassSectionUpdatedAt:       m.ClassSectionUpdatedAt,
	}
}

func (r ClassSectionResponse) WithStudentCount(n int64) ClassSectionResponse {
	r.ClassSectionStudentCount = &n
	return r
}
