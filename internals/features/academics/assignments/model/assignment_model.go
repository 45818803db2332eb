package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AssignmentModel struct {
	AssignmentID        uuid.UUID `gorm:"column:assignment_id;type:uuid;primaryKey" json:"assignment_id"`
	AssignmentSchoolID  uuid.UUID `gorm:"column:assignment_school_id;type:uuid;not null;index" json:"assignment_school_id"`
	AssignmentSectionID uuid.UUID `gorm:"column:assignment_section_id;type:uuid;not null;index" json:"assignment_section_id"`

	AssignmentSubject     string  `gorm:"column:assignment_subject;type:varchar(100);not null" json:"assignment_subject"`
	AssignmentTitle       string  `gorm:"column:assignment_title;type:varchar(200);not null" json:"assignment_title"`
	AssignmentDescription *string `gorm:"column:assignment_description;type:text" json:"assignment_description,omitempty"`

	AssignmentAssignedDate time.Time `gorm:"column:assignment_assigned_date;type:date;not null" json:"assignment_assigned_date"`
	AssignmentDueDate      time.Time `gorm:"column:assignment_due_date;type:date;not null;index" json:"assignment_due_date"`
	AssignmentTotalMarks   float64   `gorm:"column:assignment_total_marks;type:numeric(7,2);not null" json:"assignment_total_marks"`

	// [{"label":"Worksheet","url":"https://..."}]
	AssignmentAttachmentLinks datatypes.JSON `gorm:"column:assignment_attachment_links" json:"assignment_attachment_links"`

	AssignmentCreatedAt time.Time      `gorm:"column:assignment_created_at;not null;autoCreateTime" json:"assignment_created_at"`
	AssignmentUpdatedAt time.Time      `gorm:"column:assignment_updated_at;not null;autoUpdateTime" json:"assignment_updated_at"`
	AssignmentDeletedAt gorm.DeletedAt `gorm:"column:assignment_deleted_at;index" json:"-"`
}

func (AssignmentModel) TableName() string { return "assignments" }

func (m *AssignmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssignmentID == uuid.Nil {
		m.AssignmentID = uuid.New()
	}
	return nil
}

// AssignmentSubmissionModel: one per (assignment, student); a resubmission overwrites it.
type AssignmentSubmissionModel struct {
	SubmissionID           uuid.UUID `gorm:"column:submission_id;type:uuid;primaryKey" json:"submission_id"`
	SubmissionSchoolID     uuid.UUID `gorm:"column:submission_school_id;type:uuid;not null;index" json:"submission_school_id"`
	SubmissionAssignmentID uuid.UUID `gorm:"column:submission_assignment_id;type:uuid;not null;uniqueIndex:uq_submissions_student,priority:1" json:"submission_assignment_id"`
	SubmissionStudentID    uuid.UUID `gorm:"column:submission_student_id;type:uuid;not null;uniqueIndex:uq_submissions_student,priority:2" json:"submission_student_id"`

	SubmissionSubmittedAt time.Time `gorm:"column:submission_submitted_at;not null" json:"submission_submitted_at"`
	SubmissionLink        *string   `gorm:"column:submission_link;type:text" json:"submission_link,omitempty"`
	SubmissionIsLate      bool      `gorm:"column:submission_is_late;not null" json:"submission_is_late"`

	SubmissionScore    *float64   `gorm:"column:submission_score;type:numeric(7,2)" json:"submission_score,omitempty"`
	SubmissionFeedback *string    `gorm:"column:submission_feedback;type:text" json:"submission_feedback,omitempty"`
	SubmissionGradedAt *time.Time `gorm:"column:submission_graded_at" json:"submission_graded_at,omitempty"`

	SubmissionCreatedAt time.Time `gorm:"column:submission_created_at;not null;autoCreateTime" json:"submission_created_at"`
	SubmissionUpdatedAt time.Time `gorm:"column:submission_updated_at;not null;autoUpdateTime" json:"submission_updated_at"`
}

func (AssignmentSubmissionModel) TableName() string { return "assignment_submissions" }

func (m *AssignmentSubmissionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubmissionID == uuid.Nil {
		m.SubmissionID = uuid.New()
	}
	return nil
}
