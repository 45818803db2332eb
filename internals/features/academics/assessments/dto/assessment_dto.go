package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/academics/assessments/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
)

/* ===================== REQUESTS ===================== */

type CreateAssessmentRequest struct {
	SectionID    uuid.UUID `json:"assessment_section_id" validate:"required"`
	Subject      string    `json:"assessment_subject" validate:"required,max=100"`
	Title        string    `json:"assessment_title" validate:"required,max=200"`
	Kind         string    `json:"assessment_kind" validate:"required,oneof=exam quiz test practical"`
	Date         string    `json:"assessment_date" validate:"required,datetime=2006-01-02"`
	TotalMarks   float64   `json:"assessment_total_marks" validate:"required,gt=0"`
	PassingMarks float64   `json:"assessment_passing_marks" validate:"gte=0,ltefield=TotalMarks"`
	Description  *string   `json:"assessment_description"`
	IsPublished  bool      `json:"assessment_is_published"`
}

func (r CreateAssessmentRequest) ToModel(schoolID uuid.UUID) (*model.AssessmentModel, error) {
	d, err := dbtime.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	return &model.AssessmentModel{
		AssessmentSchoolID:     schoolID,
		AssessmentSectionID:    r.SectionID,
		AssessmentSubject:      strings.TrimSpace(r.Subject),
		AssessmentTitle:        strings.TrimSpace(r.Title),
		AssessmentKind:         model.AssessmentKind(r.Kind),
		AssessmentDate:         d,
		AssessmentTotalMarks:   r.TotalMarks,
		AssessmentPassingMarks: r.PassingMarks,
		AssessmentDescription:  helper.TrimPtr(r.Description),
		AssessmentIsPublished:  r.IsPublished,
	}, nil
}

type UpdateAssessmentRequest struct {
	Subject      *string  `json:"assessment_subject" validate:"omitempty,min=1,max=100"`
	Title        *string  `json:"assessment_title" validate:"omitempty,min=1,max=200"`
	Kind         *string  `json:"assessment_kind" validate:"omitempty,oneof=exam quiz test practical"`
	Date         *string  `json:"assessment_date" validate:"omitempty,datetime=2006-01-02"`
	TotalMarks   *float64 `json:"assessment_total_marks" validate:"omitempty,gt=0"`
	PassingMarks *float64 `json:"assessment_passing_marks" validate:"omitempty,gte=0"`
	Description  *string  `json:"assessment_description"`
	IsPublished  *bool    `json:"assessment_is_published"`
}

func (r UpdateAssessmentRequest) ApplyToModel(m *model.AssessmentModel) error {
	if r.Subject != nil {
		m.AssessmentSubject = strings.TrimSpace(*r.Subject)
	}
	if r.Title != nil {
		m.AssessmentTitle = strings.TrimSpace(*r.Title)
	}
	if r.Kind != nil {
		m.AssessmentKind = model.AssessmentKind(*r.Kind)
	}
	if r.Date != nil {
		d, err := dbtime.ParseDate(*r.Date)
		if err != nil {
			return err
		}
		m.AssessmentDate = d
	}
	if r.TotalMarks != nil {
		m.AssessmentTotalMarks = *r.TotalMarks
	}
	if r.PassingMarks != nil {
		m.AssessmentPassingMarks = *r.PassingMarks
	}
	if r.Description != nil {
		m.AssessmentDescription = helper.TrimPtr(r.Description)
	}
	if r.IsPublished != nil {
		m.AssessmentIsPublished = *r.IsPublished
	}
	return nil
}

type ListAssessmentQuery struct {
	Subject string `query:"subject"`
	Kind    string `query:"kind"`
}

type ResultItem struct {
	StudentID     uuid.UUID `json:"student_id" validate:"required"`
	MarksObtained float64   `json:"marks_obtained" validate:"gte=0"`
	Remarks       *string   `json:"remarks"`
}

type UpsertResultsRequest struct {
	Results []ResultItem `json:"results" validate:"required,min=1,dive"`
}

/* ===================== RESPONSES ===================== */

type AssessmentResponse struct {
	AssessmentID           uuid.UUID `json:"assessment_id"`
	AssessmentSectionID    uuid.UUID `json:"assessment_section_id"`
	AssessmentSubject      string    `json:"assessment_subject"`
	AssessmentTitle        string    `json:"assessment_title"`
	AssessmentKind         string    `json:"assessment_kind"`
	AssessmentDate         string    `json:"assessment_date"`
	AssessmentTotalMarks   float64   `json:"assessment_total_marks"`
	AssessmentPassingMarks float64   `json:"assessment_passing_marks"`
	AssessmentDescription  *string   `json:"assessment_description,omitempty"`
	AssessmentIsPublished  bool      `json:"assessment_is_published"`
	AssessmentResultCount  *int64    `json:"assessment_result_count,omitempty"`
	AssessmentCreatedAt    time.Time `json:"assessment_created_at"`
	AssessmentUpdatedAt    time.Time `json:"assessment_updated_at"`
}

func FromModel(m *model.AssessmentModel) AssessmentResponse {
	return AssessmentResponse{
		AssessmentID:           m.AssessmentID,
		AssessmentSectionID:    m.AssessmentSectionID,
		AssessmentSubject:      m.AssessmentSubject,
		AssessmentTitle:        m.AssessmentTitle,
		AssessmentKind:         string(m.AssessmentKind),
		AssessmentDate:         m.AssessmentDate.Format(dbtime.DateLayout),
		AssessmentTotalMarks:   m.AssessmentTotalMarks,
		AssessmentPassingMarks: m.AssessmentPassingMarks,
		AssessmentDescription:  m.AssessmentDescription,
		AssessmentIsPublished:  m.AssessmentIsPublished,
		AssessmentCreatedAt:    m.AssessmentCreatedAt,
		AssessmentUpdatedAt:    m.AssessmentUpdatedAt,
	}
}

type ResultResponse struct {
	AssessmentResultID            uuid.UUID `json:"assessment_result_id"`
	AssessmentResultStudentID     uuid.UUID `json:"assessment_result_student_id"`
	AssessmentResultStudentName   string    `json:"assessment_result_student_name,omitempty"`
	AssessmentResultMarksObtained float64   `json:"assessment_result_marks_obtained"`
	AssessmentResultPercentage    float64   `json:"assessment_result_percentage"`
	AssessmentResultGrade         string    `json:"assessment_result_grade"`
	AssessmentResultPassed        bool      `json:"assessment_result_passed"`
	AssessmentResultRemarks       *string   `json:"assessment_result_remarks,omitempty"`
	AssessmentResultUpdatedAt     time.Time `json:"assessment_result_updated_at"`
}
