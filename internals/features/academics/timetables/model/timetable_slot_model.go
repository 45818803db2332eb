package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/helpers/dbtime"
)

// TimetableSlotModel is one weekly lesson slot. day_of_week is ISO (1=Mon..7=Sun).
type TimetableSlotModel struct {
	TimetableSlotID        uuid.UUID  `gorm:"column:timetable_slot_id;type:uuid;primaryKey" json:"timetable_slot_id"`
	TimetableSlotSchoolID  uuid.UUID  `gorm:"column:timetable_slot_school_id;type:uuid;not null;index:idx_timetable_slots_school_day,priority:1" json:"timetable_slot_school_id"`
	TimetableSlotSectionID uuid.UUID  `gorm:"column:timetable_slot_section_id;type:uuid;not null;index" json:"timetable_slot_section_id"`
	TimetableSlotStaffID   *uuid.UUID `gorm:"column:timetable_slot_staff_id;type:uuid;index" json:"timetable_slot_staff_id,omitempty"`

	TimetableSlotDayOfWeek int        `gorm:"column:timetable_slot_day_of_week;not null;index:idx_timetable_slots_school_day,priority:2" json:"timetable_slot_day_of_week"`
	TimetableSlotStartTime dbtime.Tod `gorm:"column:timetable_slot_start_time;type:time;not null" json:"timetable_slot_start_time"`
	TimetableSlotEndTime   dbtime.Tod `gorm:"column:timetable_slot_end_time;type:time;not null" json:"timetable_slot_end_time"`

	TimetableSlotSubject string  `gorm:"column:timetable_slot_subject;type:varchar(100);not null" json:"timetable_slot_subject"`
	TimetableSlotRoom    *string `gorm:"column:timetable_slot_room;type:varchar(50)" json:"timetable_slot_room,omitempty"`

	TimetableSlotCreatedAt time.Time      `gorm:"column:timetable_slot_created_at;not null;autoCreateTime" json:"timetable_slot_created_at"`
	TimetableSlotUpdatedAt time.Time      `gorm:"column:timetable_slot_updated_at;not null;autoUpdateTime" json:"timetable_slot_updated_at"`
	TimetableSlotDeletedAt gorm.DeletedAt `gorm:"column:timetable_slot_deleted_at;index" json:"-"`
}

func (TimetableSlotModel) TableName() string { return "timetable_slots" }

func (m *TimetableSlotModel) BeforeCreate(tx *gorm.DB) error {
	if m.TimetableSlotID == uuid.Nil {
		m.TimetableSlotID = uuid.New()
	}
	return nil
}
