package dto

import (
	"strings"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/academics/timetables/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
)

type CreateSlotRequest struct {
	SectionID uuid.UUID  `json:"timetable_slot_section_id" validate:"required"`
	StaffID   *uuid.UUID `json:"timetable_slot_staff_id"`
	DayOfWeek int        `json:"timetable_slot_day_of_week" validate:"required,min=1,max=7"`
	StartTime string     `json:"timetable_slot_start_time" validate:"required,hhmm"`
	EndTime   string     `json:"timetable_slot_end_time" validate:"required,hhmm"`
	Subject   string     `json:"timetable_slot_subject" validate:"required,max=100"`
	Room      *string    `json:"timetable_slot_room" validate:"omitempty,max=50"`
}

func (r CreateSlotRequest) ToModel(schoolID uuid.UUID) model.TimetableSlotModel {
	return model.TimetableSlotModel{
		TimetableSlotSchoolID:  schoolID,
		TimetableSlotSectionID: r.SectionID,
		TimetableSlotStaffID:   nonNil(r.StaffID),
		TimetableSlotDayOfWeek: r.DayOfWeek,
		TimetableSlotStartTime: dbtime.MustParse(r.StartTime),
		TimetableSlotEndTime:   dbtime.MustParse(r.EndTime),
		TimetableSlotSubject:   strings.TrimSpace(r.Subject),
		TimetableSlotRoom:      helper.TrimPtr(r.Room),
	}
}

type UpdateSlotRequest struct {
	SectionID *uuid.UUID `json:"timetable_slot_section_id"`
	StaffID   *uuid.UUID `json:"timetable_slot_staff_id"`
	DayOfWeek *int       `json:"timetable_slot_day_of_week" validate:"omitempty,min=1,max=7"`
	StartTime *string    `json:"timetable_slot_start_time" validate:"omitempty,hhmm"`
	EndTime   *string    `json:"timetable_slot_end_time" validate:"omitempty,hhmm"`
	Subject   *string    `json:"timetable_slot_subject" validate:"omitempty,min=1,max=100"`
	Room      *string    `json:"timetable_slot_room" validate:"omitempty,max=50"`
}

// ApplyToModel: a nil uuid in timetable_slot_staff_id unassigns the teacher.
func (r UpdateSlotRequest) ApplyToModel(m *model.TimetableSlotModel) {
	if r.SectionID != nil && *r.SectionID != uuid.Nil {
		m.TimetableSlotSectionID = *r.SectionID
	}
	if r.StaffID != nil {
		m.TimetableSlotStaffID = nonNil(r.StaffID)
	}
	if r.DayOfWeek != nil {
		m.TimetableSlotDayOfWeek = *r.DayOfWeek
	}
	if r.StartTime != nil {
		m.TimetableSlotStartTime = dbtime.MustParse(*r.StartTime)
	}
	if r.EndTime != nil {
		m.TimetableSlotEndTime = dbtime.MustParse(*r.EndTime)
	}
	if r.Subject != nil {
		m.TimetableSlotSubject = strings.TrimSpace(*r.Subject)
	}
	if r.Room != nil {
		m.TimetableSlotRoom = helper.TrimPtr(r.Room)
	}
}

type SlotResponse struct {
	TimetableSlotID        uuid.UUID  `json:"timetable_slot_id"`
	TimetableSlotSectionID uuid.UUID  `json:"timetable_slot_section_id"`
	TimetableSlotStaffID   *uuid.UUID `json:"timetable_slot_staff_id,omitempty"`
	TimetableSlotDayOfWeek int        `json:"timetable_slot_day_of_week"`
	TimetableSlotStartTime string     `json:"timetable_slot_start_time"`
	TimetableSlotEndTime   string     `json:"timetable_slot_end_time"`
	TimetableSlotSubject   string     `json:"timetable_slot_subject"`
	TimetableSlotRoom      *string    `json:"timetable_slot_room,omitempty"`
}

func FromModel(m *model.TimetableSlotModel) SlotResponse {
	return SlotResponse{
		TimetableSlotID:        m.TimetableSlotID,
		TimetableSlotSectionID: m.TimetableSlotSectionID,
		TimetableSlotStaffID:   m.TimetableSlotStaffID,
		TimetableSlotDayOfWeek: m.TimetableSlotDayOfWeek,
		TimetableSlotStartTime: m.TimetableSlotStartTime.String(),
		TimetableSlotEndTime:   m.TimetableSlotEndTime.String(),
		TimetableSlotSubject:   m.TimetableSlotSubject,
		TimetableSlotRoom:      m.TimetableSlotRoom,
	}
}

func nonNil(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	v := *id
	return &v
}
