package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"schoolku_backend/internals/features/academics/assignments/model"
	"schoolku_backend/internals/features/academics/assignments/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
)

type AttachmentLink struct {
	Label string `json:"label" validate:"required,max=120"`
	URL   string `json:"url" validate:"required,url"`
}

/* ===================== REQUESTS ===================== */

type CreateAssignmentRequest struct {
	SectionID       uuid.UUID        `json:"assignment_section_id" validate:"required"`
	Subject         string           `json:"assignment_subject" validate:"required,max=100"`
	Title           string           `json:"assignment_title" validate:"required,max=200"`
	Description     *string          `json:"assignment_description"`
	AssignedDate    string           `json:"assignment_assigned_date" validate:"required,datetime=2006-01-02"`
	DueDate         string           `json:"assignment_due_date" validate:"required,datetime=2006-01-02"`
	TotalMarks      float64          `json:"assignment_total_marks" validate:"required,gt=0"`
	AttachmentLinks []AttachmentLink `json:"assignment_attachment_links" validate:"omitempty,max=20,dive"`
}

func (r CreateAssignmentRequest) ToModel(schoolID uuid.UUID) (*model.AssignmentModel, error) {
	assigned, err := dbtime.ParseDate(r.AssignedDate)
	if err != nil {
		return nil, err
	}
	due, err := dbtime.ParseDate(r.DueDate)
	if err != nil {
		return nil, err
	}
	links, err := encodeLinks(r.AttachmentLinks)
	if err != nil {
		return nil, err
	}
	return &model.AssignmentModel{
		AssignmentSchoolID:        schoolID,
		AssignmentSectionID:       r.SectionID,
		AssignmentSubject:         strings.TrimSpace(r.Subject),
		AssignmentTitle:           strings.TrimSpace(r.Title),
		AssignmentDescription:     helper.TrimPtr(r.Description),
		AssignmentAssignedDate:    assigned,
		AssignmentDueDate:         due,
		AssignmentTotalMarks:      r.TotalMarks,
		AssignmentAttachmentLinks: links,
	}, nil
}

type UpdateAssignmentRequest struct {
	Subject         *string           `json:"assignment_subject" validate:"omitempty,min=1,max=100"`
	Title           *string           `json:"assignment_title" validate:"omitempty,min=1,max=200"`
	Description     *string           `json:"assignment_description"`
	AssignedDate    *string           `json:"assignment_assigned_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate         *string           `json:"assignment_due_date" validate:"omitempty,datetime=2006-01-02"`
	TotalMarks      *float64          `json:"assignment_total_marks" validate:"omitempty,gt=0"`
	AttachmentLinks *[]AttachmentLink `json:"assignment_attachment_links" validate:"omitempty,max=20,dive"`
}

func (r UpdateAssignmentRequest) ApplyToModel(m *model.AssignmentModel) error {
	if r.Subject != nil {
		m.AssignmentSubject = strings.TrimSpace(*r.Subject)
	}
	if r.Title != nil {
		m.AssignmentTitle = strings.TrimSpace(*r.Title)
	}
	if r.Description != nil {
		m.AssignmentDescription = helper.TrimPtr(r.Description)
	}
	if r.AssignedDate != nil {
		d, err := dbtime.ParseDate(*r.AssignedDate)
		if err != nil {
			return err
		}
		m.AssignmentAssignedDate = d
	}
	if r.DueDate != nil {
		d, err := dbtime.ParseDate(*r.DueDate)
		if err != nil {
			return err
		}
		m.AssignmentDueDate = d
	}
	if r.TotalMarks != nil {
		m.AssignmentTotalMarks = *r.TotalMarks
	}
	if r.AttachmentLinks != nil {
		links, err := encodeLinks(*r.AttachmentLinks)
		if err != nil {
			return err
		}
		m.AssignmentAttachmentLinks = links
	}
	return nil
}

type ListAssignmentQuery struct {
	Subject string `query:"subject"`
	Status  string `query:"status"`
}

type SubmitRequest struct {
	StudentID   uuid.UUID  `json:"student_id" validate:"required"`
	Link        *string    `json:"link" validate:"omitempty,url"`
	SubmittedAt *time.Time `json:"submitted_at"`
}

type GradeRequest struct {
	Score    float64 `json:"score" validate:"gte=0"`
	Feedback *string `json:"feedback"`
}

/* ===================== RESPONSES ===================== */

type AssignmentResponse struct {
	AssignmentID              uuid.UUID        `json:"assignment_id"`
	AssignmentSectionID       uuid.UUID        `json:"assignment_section_id"`
	AssignmentSubject         string           `json:"assignment_subject"`
	AssignmentTitle           string           `json:"assignment_title"`
	AssignmentDescription     *string          `json:"assignment_description,omitempty"`
	AssignmentAssignedDate    string           `json:"assignment_assigned_date"`
	AssignmentDueDate         string           `json:"assignment_due_date"`
	AssignmentTotalMarks      float64          `json:"assignment_total_marks"`
	AssignmentAttachmentLinks []AttachmentLink `json:"assignment_attachment_links"`
	AssignmentStatus          string           `json:"assignment_status"`
	AssignmentSubmissionCount *int64           `json:"assignment_submission_count,omitempty"`
	AssignmentCreatedAt       time.Time        `json:"assignment_created_at"`
	AssignmentUpdatedAt       time.Time        `json:"assignment_updated_at"`
}

func FromModel(m *model.AssignmentModel, today time.Time) AssignmentResponse {
	return AssignmentResponse{
		AssignmentID:              m.AssignmentID,
		AssignmentSectionID:       m.AssignmentSectionID,
		AssignmentSubject:         m.AssignmentSubject,
		AssignmentTitle:           m.AssignmentTitle,
		AssignmentDescription:     m.AssignmentDescription,
		AssignmentAssignedDate:    m.AssignmentAssignedDate.Format(dbtime.DateLayout),
		AssignmentDueDate:         m.AssignmentDueDate.Format(dbtime.DateLayout),
		AssignmentTotalMarks:      m.AssignmentTotalMarks,
		AssignmentAttachmentLinks: DecodeLinks(m.AssignmentAttachmentLinks),
		AssignmentStatus:          service.Status(today, m.AssignmentAssignedDate, m.AssignmentDueDate),
		AssignmentCreatedAt:       m.AssignmentCreatedAt,
		AssignmentUpdatedAt:       m.AssignmentUpdatedAt,
	}
}

type SubmissionResponse struct {
	SubmissionID          uuid.UUID  `json:"submission_id"`
	SubmissionStudentID   uuid.UUID  `json:"submission_student_id"`
	SubmissionStudentName string     `json:"submission_student_name,omitempty"`
	SubmissionSubmittedAt time.Time  `json:"submission_submitted_at"`
	SubmissionLink        *string    `json:"submission_link,omitempty"`
	SubmissionIsLate      bool       `json:"submission_is_late"`
	SubmissionScore       *float64   `json:"submission_score"`
	SubmissionFeedback    *string    `json:"submission_feedback,omitempty"`
	SubmissionGradedAt    *time.Time `json:"submission_graded_at,omitempty"`
}

func FromSubmission(m *model.AssignmentSubmissionModel) SubmissionResponse {
	return SubmissionResponse{
		SubmissionID:          m.SubmissionID,
		SubmissionStudentID:   m.SubmissionStudentID,
		SubmissionSubmittedAt: m.SubmissionSubmittedAt,
		SubmissionLink:        m.SubmissionLink,
		SubmissionIsLate:      m.SubmissionIsLate,
		SubmissionScore:       m.SubmissionScore,
		SubmissionFeedback:    m.SubmissionFeedback,
		SubmissionGradedAt:    m.SubmissionGradedAt,
	}
}

func encodeLinks(links []AttachmentLink) (datatypes.JSON, error) {
	if links == nil {
		links = []AttachmentLink{}
	}
	for i := range links {
		links[i].Label = strings.TrimSpace(links[i].Label)
		links[i].URL = strings.TrimSpace(links[i].URL)
	}
	raw, err := json.Marshal(links)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func DecodeLinks(raw datatypes.JSON) []AttachmentLink {
	out := []AttachmentLink{}
	if len(raw) == 0 {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	return out
}
