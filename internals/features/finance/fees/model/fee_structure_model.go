package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Frequency string

const (
	FrequencyOneTime Frequency = "one_time"
	FrequencyMonthly Frequency = "monthly"
	FrequencyTermly  Frequency = "termly"
	FrequencyYearly  Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyOneTime, FrequencyMonthly, FrequencyTermly, FrequencyYearly:
		return true
	}
	return false
}

// FeeStructureModel: amounts are integer minor units; a NULL section applies to every section.
type FeeStructureModel struct {
	FeeStructureID        uuid.UUID  `gorm:"column:fee_structure_id;type:uuid;primaryKey" json:"fee_structure_id"`
	FeeStructureSchoolID  uuid.UUID  `gorm:"column:fee_structure_school_id;type:uuid;not null;index" json:"fee_structure_school_id"`
	FeeStructureSectionID *uuid.UUID `gorm:"column:fee_structure_section_id;type:uuid;index" json:"fee_structure_section_id,omitempty"`

	FeeStructureName      string    `gorm:"column:fee_structure_name;type:varchar(120);not null" json:"fee_structure_name"`
	FeeStructureAmount    int64     `gorm:"column:fee_structure_amount;not null" json:"fee_structure_amount"`
	FeeStructureFrequency Frequency `gorm:"column:fee_structure_frequency;type:varchar(10);not null" json:"fee_structure_frequency"`
	FeeStructureDueDay    int       `gorm:"column:fee_structure_due_day;not null" json:"fee_structure_due_day"`
	FeeStructureStartsOn  time.Time `gorm:"column:fee_structure_starts_on;type:date;not null" json:"fee_structure_starts_on"`
	FeeStructureEndsOn    time.Time `gorm:"column:fee_structure_ends_on;type:date;not null" json:"fee_structure_ends_on"`
	FeeStructureLateFee   *int64    `gorm:"column:fee_structure_late_fee" json:"fee_structure_late_fee,omitempty"`
	FeeStructureIsActive  bool      `gorm:"column:fee_structure_is_active;not null" json:"fee_structure_is_active"`

	FeeStructureCreatedAt time.Time      `gorm:"column:fee_structure_created_at;not null;autoCreateTime" json:"fee_structure_created_at"`
	FeeStructureUpdatedAt time.Time      `gorm:"column:fee_structure_updated_at;not null;autoUpdateTime" json:"fee_structure_updated_at"`
	FeeStructureDeletedAt gorm.DeletedAt `gorm:"column:fee_structure_deleted_at;index" json:"-"`
}

func (FeeStructureModel) TableName() string { return "fee_structures" }

func (m *FeeStructureModel) BeforeCreate(tx *gorm.DB) error {
	if m.FeeStructureID == uuid.Nil {
		m.FeeStructureID = uuid.New()
	}
	return nil
}
