package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SchoolModel is the tenant row; every tenant table carries *_school_id.
type SchoolModel struct {
	SchoolID uuid.UUID `gorm:"column:school_id;type:uuid;primaryKey" json:"school_id"`

	SchoolName    string  `gorm:"column:school_name;type:varchar(150);not null" json:"school_name"`
	SchoolSlug    string  `gorm:"column:school_slug;type:varchar(160);not null;uniqueIndex:uq_schools_slug" json:"school_slug"`
	SchoolAddress *string `gorm:"column:school_address;type:text" json:"school_address,omitempty"`
	SchoolPhone   *string `gorm:"column:school_phone;type:varchar(30)" json:"school_phone,omitempty"`
	SchoolEmail   *string `gorm:"column:school_email;type:varchar(150)" json:"school_email,omitempty"`

	SchoolTimezone string `gorm:"column:school_timezone;type:varchar(64);not null;default:'Asia/Jakarta'" json:"school_timezone"`
	SchoolIsActive bool   `gorm:"column:school_is_active;not null;default:true" json:"school_is_active"`

	SchoolCreatedAt time.Time      `gorm:"column:school_created_at;not null;autoCreateTime" json:"school_created_at"`
	SchoolUpdatedAt time.Time      `gorm:"column:school_updated_at;not null;autoUpdateTime" json:"school_updated_at"`
	SchoolDeletedAt gorm.DeletedAt `gorm:"column:school_deleted_at;index" json:"-"`
}

func (SchoolModel) TableName() string { return "schools" }

func (m *SchoolModel) BeforeCreate(tx *gorm.DB) error {
	if m.SchoolID == uuid.Nil {
		m.SchoolID = uuid.New()
	}
	return nil
}
