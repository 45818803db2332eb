package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssessmentKind string

const (
	AssessmentKindExam      AssessmentKind = "exam"
	AssessmentKindQuiz      AssessmentKind = "quiz"
	AssessmentKindTest      AssessmentKind = "test"
	AssessmentKindPractical AssessmentKind = "practical"
)

type AssessmentModel struct {
	AssessmentID        uuid.UUID `gorm:"column:assessment_id;type:uuid;primaryKey" json:"assessment_id"`
	AssessmentSchoolID  uuid.UUID `gorm:"column:assessment_school_id;type:uuid;not null;index:idx_assessments_school_date,priority:1" json:"assessment_school_id"`
	AssessmentSectionID uuid.UUID `gorm:"column:assessment_section_id;type:uuid;not null;index" json:"assessment_section_id"`

	AssessmentSubject      string         `gorm:"column:assessment_subject;type:varchar(100);not null" json:"assessment_subject"`
	AssessmentTitle        string         `gorm:"column:assessment_title;type:varchar(200);not null" json:"assessment_title"`
	AssessmentKind         AssessmentKind `gorm:"column:assessment_kind;type:varchar(20);not null" json:"assessment_kind"`
	AssessmentDate         time.Time      `gorm:"column:assessment_date;type:date;not null;index:idx_assessments_school_date,priority:2" json:"assessment_date"`
	AssessmentTotalMarks   float64        `gorm:"column:assessment_total_marks;type:numeric(7,2);not null" json:"assessment_total_marks"`
	AssessmentPassingMarks float64        `gorm:"column:assessment_passing_marks;type:numeric(7,2);not null" json:"assessment_passing_marks"`
	AssessmentDescription  *string        `gorm:"column:assessment_description;type:text" json:"assessment_description,omitempty"`
	AssessmentIsPublished  bool           `gorm:"column:assessment_is_published;not null" json:"assessment_is_published"`

	AssessmentCreatedAt time.Time      `gorm:"column:assessment_created_at;not null;autoCreateTime" json:"assessment_created_at"`
	AssessmentUpdatedAt time.Time      `gorm:"column:assessment_updated_at;not null;autoUpdateTime" json:"assessment_updated_at"`
	AssessmentDeletedAt gorm.DeletedAt `gorm:"column:assessment_deleted_at;index" json:"-"`
}

func (AssessmentModel) TableName() string { return "assessments" }

func (m *AssessmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssessmentID == uuid.Nil {
		m.AssessmentID = uuid.New()
	}
	return nil
}

// AssessmentResultModel is one student's marks; (assessment, student) is unique.
type AssessmentResultModel struct {
	AssessmentResultID           uuid.UUID `gorm:"column:assessment_result_id;type:uuid;primaryKey" json:"assessment_result_id"`
	AssessmentResultSchoolID     uuid.UUID `gorm:"column:assessment_result_school_id;type:uuid;not null;index" json:"assessment_result_school_id"`
	AssessmentResultAssessmentID uuid.UUID `gorm:"column:assessment_result_assessment_id;type:uuid;not null;uniqueIndex:uq_assessment_results_student,priority:1" json:"assessment_result_assessment_id"`
	AssessmentResultStudentID    uuid.UUID `gorm:"column:assessment_result_student_id;type:uuid;not null;uniqueIndex:uq_assessment_results_student,priority:2" json:"assessment_result_student_id"`

	AssessmentResultMarksObtained float64 `gorm:"column:assessment_result_marks_obtained;type:numeric(7,2);not null" json:"assessment_result_marks_obtained"`
	AssessmentResultRemarks       *string `gorm:"column:assessment_result_remarks;type:text" json:"assessment_result_remarks,omitempty"`

	AssessmentResultCreatedAt time.Time `gorm:"column:assessment_result_created_at;not null;autoCreateTime" json:"assessment_result_created_at"`
	AssessmentResultUpdatedAt time.Time `gorm:"column:assessment_result_updated_at;not null;autoUpdateTime" json:"assessment_result_updated_at"`
}

func (AssessmentResultModel) TableName() string { return "assessment_results" }

func (m *AssessmentResultModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssessmentResultID == uuid.Nil {
		m.AssessmentResultID = uuid.New()
	}
	return nil
}
