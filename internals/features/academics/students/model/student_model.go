package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type StudentModel struct {
	StudentID        uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`
	StudentSchoolID  uuid.UUID `gorm:"column:student_school_id;type:uuid;not null;index:idx_students_school;uniqueIndex:uq_students_admission_live,where:student_deleted_at IS NULL" json:"student_school_id"`
	StudentSectionID uuid.UUID `gorm:"column:student_section_id;type:uuid;not null;index:idx_students_section" json:"student_section_id"`

	StudentAdmissionNo string     `gorm:"column:student_admission_no;type:varchar(40);not null;uniqueIndex:uq_students_admission_live,where:student_deleted_at IS NULL" json:"student_admission_no"`
	StudentFullName    string     `gorm:"column:student_full_name;type:varchar(150);not null" json:"student_full_name"`
	StudentGender      Gender     `gorm:"column:student_gender;type:varchar(10);not null" json:"student_gender"`
	StudentDateOfBirth *time.Time `gorm:"column:student_date_of_birth;type:date" json:"student_date_of_birth,omitempty"`

	StudentGuardianName  *string `gorm:"column:student_guardian_name;type:varchar(150)" json:"student_guardian_name,omitempty"`
	StudentGuardianPhone *string `gorm:"column:student_guardian_phone;type:varchar(30)" json:"student_guardian_phone,omitempty"`

	StudentEnrolledAt time.Time `gorm:"column:student_enrolled_at;type:date;not null" json:"student_enrolled_at"`
	StudentIsActive   bool      `gorm:"column:student_is_active;not null" json:"student_is_active"`

	StudentCreatedAt time.Time      `gorm:"column:student_created_at;not null;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"column:student_updated_at;not null;autoUpdateTime" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"-"`
}

func (StudentModel) TableName() string { return "students" }

func (m *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	return nil
}
