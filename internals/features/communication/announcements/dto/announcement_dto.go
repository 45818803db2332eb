package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/communication/announcements/model"
	"schoolku_backend/internals/helpers/dbtime"
)

// Section ids travel as strings so the same struct binds from multipart forms.
type CreateAnnouncementRequest struct {
	AnnouncementTitle       string  `json:"announcement_title" form:"announcement_title" validate:"required,min=3,max=200"`
	AnnouncementContent     string  `json:"announcement_content" form:"announcement_content" validate:"required,min=3"`
	AnnouncementAudience    string  `json:"announcement_audience" form:"announcement_audience" validate:"omitempty,oneof=all students staff parents"`
	AnnouncementSectionID   *string `json:"announcement_section_id" form:"announcement_section_id" validate:"omitempty,uuid"`
	AnnouncementPublishDate string  `json:"announcement_publish_date" form:"announcement_publish_date" validate:"omitempty,datetime=2006-01-02"`
	AnnouncementExpiresAt   *string `json:"announcement_expires_at" form:"announcement_expires_at" validate:"omitempty,datetime=2006-01-02"`
	AnnouncementIsPinned    *bool   `json:"announcement_is_pinned" form:"announcement_is_pinned"`
	AnnouncementIsActive    *bool   `json:"announcement_is_active" form:"announcement_is_active"`
}

// ToModel defaults audience to "all", publish date to today and active to true.
func (r CreateAnnouncementRequest) ToModel(schoolID uuid.UUID, today time.Time) *model.AnnouncementModel {
	m := &model.AnnouncementModel{
		AnnouncementSchoolID:    schoolID,
		AnnouncementTitle:       strings.TrimSpace(r.AnnouncementTitle),
		AnnouncementContent:     strings.TrimSpace(r.AnnouncementContent),
		AnnouncementAudience:    model.AudienceAll,
		AnnouncementPublishDate: today,
		AnnouncementIsActive:    true,
	}
	if r.AnnouncementAudience != "" {
		m.AnnouncementAudience = model.Audience(r.AnnouncementAudience)
	}
	m.AnnouncementSectionID = parseUUIDPtr(r.AnnouncementSectionID)
	if d, err := dbtime.ParseDate(r.AnnouncementPublishDate); err == nil {
		m.AnnouncementPublishDate = d
	}
	m.AnnouncementExpiresAt = parseDatePtr(r.AnnouncementExpiresAt)
	if r.AnnouncementIsPinned != nil {
		m.AnnouncementIsPinned = *r.AnnouncementIsPinned
	}
	if r.AnnouncementIsActive != nil {
		m.AnnouncementIsActive = *r.AnnouncementIsActive
	}
	return m
}

// UpdateAnnouncementRequest: an empty section id or expiry clears it.
type UpdateAnnouncementRequest struct {
	AnnouncementTitle       *string `json:"announcement_title" form:"announcement_title" validate:"omitempty,min=3,max=200"`
	AnnouncementContent     *string `json:"announcement_content" form:"announcement_content" validate:"omitempty,min=3"`
	AnnouncementAudience    *string `json:"announcement_audience" form:"announcement_audience" validate:"omitempty,oneof=all students staff parents"`
	AnnouncementSectionID   *string `json:"announcement_section_id" form:"announcement_section_id" validate:"omitempty,uuid"`
	AnnouncementPublishDate *string `json:"announcement_publish_date" form:"announcement_publish_date" validate:"omitempty,datetime=2006-01-02"`
	AnnouncementExpiresAt   *string `json:"announcement_expires_at" form:"announcement_expires_at" validate:"omitempty,datetime=2006-01-02"`
	AnnouncementIsPinned    *bool   `json:"announcement_is_pinned" form:"announcement_is_pinned"`
	AnnouncementIsActive    *bool   `json:"announcement_is_active" form:"announcement_is_active"`
}

func (r *UpdateAnnouncementRequest) ApplyToModel(m *model.AnnouncementModel) {
	if r.AnnouncementTitle != nil {
		m.AnnouncementTitle = strings.TrimSpace(*r.AnnouncementTitle)
	}
	if r.AnnouncementContent != nil {
		m.AnnouncementContent = strings.TrimSpace(*r.AnnouncementContent)
	}
	if r.AnnouncementAudience != nil && *r.AnnouncementAudience != "" {
		m.AnnouncementAudience = model.Audience(*r.AnnouncementAudience)
	}
	if r.AnnouncementSectionID != nil {
		m.AnnouncementSectionID = parseUUIDPtr(r.AnnouncementSectionID)
	}
	if r.AnnouncementPublishDate != nil {
		if d, err := dbtime.ParseDate(*r.AnnouncementPublishDate); err == nil {
			m.AnnouncementPublishDate = d
		}
	}
	if r.AnnouncementExpiresAt != nil {
		m.AnnouncementExpiresAt = parseDatePtr(r.AnnouncementExpiresAt)
	}
	if r.AnnouncementIsPinned != nil {
		m.AnnouncementIsPinned = *r.AnnouncementIsPinned
	}
	if r.AnnouncementIsActive != nil {
		m.AnnouncementIsActive = *r.AnnouncementIsActive
	}
}

type ListAnnouncementQuery struct {
	Audience      string `query:"audience"`
	IncludeGlobal *bool  `query:"include_global"`
	ActiveOnly    bool   `query:"active_only"`
	Q             string `query:"q"`
}

type AnnouncementResponse struct {
	AnnouncementID          uuid.UUID  `json:"announcement_id"`
	AnnouncementSectionID   *uuid.UUID `json:"announcement_section_id"`
	AnnouncementTitle       string     `json:"announcement_title"`
	AnnouncementContent     string     `json:"announcement_content"`
	AnnouncementAudience    string     `json:"announcement_audience"`
	AnnouncementPublishDate string     `json:"announcement_publish_date"`
	AnnouncementExpiresAt   *string    `json:"announcement_expires_at"`
	AnnouncementIsPinned    bool       `json:"announcement_is_pinned"`
	AnnouncementIsActive    bool       `json:"announcement_is_active"`
	AnnouncementIsLive      bool       `json:"announcement_is_live"`
	AnnouncementCreatedAt   time.Time  `json:"announcement_created_at"`
	AnnouncementUpdatedAt   time.Time  `json:"announcement_updated_at"`
}

func FromModel(m *model.AnnouncementModel, today time.Time) AnnouncementResponse {
	r := AnnouncementResponse{
		AnnouncementID:          m.AnnouncementID,
		AnnouncementSectionID:   m.AnnouncementSectionID,
		AnnouncementTitle:       m.AnnouncementTitle,
		AnnouncementContent:     m.AnnouncementContent,
		AnnouncementAudience:    string(m.AnnouncementAudience),
		AnnouncementPublishDate: m.AnnouncementPublishDate.Format(dbtime.DateLayout),
		AnnouncementIsPinned:    m.AnnouncementIsPinned,
		AnnouncementIsActive:    m.AnnouncementIsActive,
		AnnouncementIsLive:      m.LiveOn(today),
		AnnouncementCreatedAt:   m.AnnouncementCreatedAt,
		AnnouncementUpdatedAt:   m.AnnouncementUpdatedAt,
	}
	if m.AnnouncementExpiresAt != nil {
		s := m.AnnouncementExpiresAt.Format(dbtime.DateLayout)
		r.AnnouncementExpiresAt = &s
	}
	return r
}

func parseUUIDPtr(s *string) *uuid.UUID {
	if s == nil {
		return nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &id
}

func parseDatePtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	d, err := dbtime.ParseDate(*s)
	if err != nil {
		return nil
	}
	return &d
}
