package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassSectionModel is a class subdivision ("Class 10 - A") for one academic year.
type ClassSectionModel struct {
	ClassSectionID       uuid.UUID `gorm:"column:class_section_id;type:uuid;primaryKey" json:"class_section_id"`
	ClassSectionSchoolID uuid.UUID `gorm:"column:class_section_school_id;type:uuid;not null;index:idx_class_sections_school;uniqueIndex:uq_class_sections_live,where:class_section_deleted_at IS NULL" json:"class_section_school_id"`

	ClassSectionClassName    string `gorm:"column:class_section_class_name;type:varchar(80);not null;uniqueIndex:uq_class_sections_live,where:class_section_deleted_at IS NULL" json:"class_section_class_name"`
	ClassSectionName         string `gorm:"column:class_section_name;type:varchar(40);not null;uniqueIndex:uq_class_sections_live,where:class_section_deleted_at IS NULL" json:"class_section_name"`
	ClassSectionAcademicYear string `gorm:"column:class_section_academic_year;type:varchar(20);not null;uniqueIndex:uq_class_sections_live,where:class_section_deleted_at IS NULL" json:"class_section_academic_year"`

	ClassSectionCapacity        *int       `gorm:"column:class_section_capacity" json:"class_section_capacity,omitempty"`
	ClassSectionHomeroomStaffID *uuid.UUID `gorm:"column:class_section_homeroom_staff_id;type:uuid" json:"class_section_homeroom_staff_id,omitempty"`

	ClassSectionCreatedAt time.Time      `gorm:"column:class_section_created_at;not null;autoCreateTime" json:"class_section_created_at"`
	ClassSectionUpdatedAt time.Time      `gorm:"column:class_section_updated_at;not null;autoUpdateTime" json:"class_section_updated_at"`
	ClassSectionDeletedAt gorm.DeletedAt `gorm:"column:class_section_deleted_at;index" json:"-"`
}

func (ClassSectionModel) TableName() string { return "class_sections" }

func (m *ClassSectionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassSectionID == uuid.Nil {
		m.ClassSectionID = uuid.New()
	}
	return nil
}

// Label is "<class> - <section>".
func (m *ClassSectionModel) Label() string {
	return m.ClassSectionClassName + " - " + m.ClassSectionName
}
