package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/schools/schools/model"
	helper "schoolku_backend/internals/helpers"
)

/* ===================== REQUESTS ===================== */

type CreateSchoolRequest struct {
	SchoolName     string  `json:"school_name" validate:"required,min=3,max=150"`
	SchoolSlug     string  `json:"school_slug" validate:"omitempty,max=160"`
	SchoolAddress  *string `json:"school_address" validate:"omitempty"`
	SchoolPhone    *string `json:"school_phone" validate:"omitempty,max=30"`
	SchoolEmail    *string `json:"school_email" validate:"omitempty,email"`
	SchoolTimezone string  `json:"school_timezone" validate:"omitempty,timezone"`
}

func (r CreateSchoolRequest) ToModel() *model.SchoolModel {
	tz := strings.TrimSpace(r.SchoolTimezone)
	if tz == "" {
		tz = "Asia/Jakarta"
	}
	return &model.SchoolModel{
		SchoolName:     strings.TrimSpace(r.SchoolName),
		SchoolSlug:     helper.Slugify(firstNonBlank(r.SchoolSlug, r.SchoolName), 160),
		SchoolAddress:  helper.TrimPtr(r.SchoolAddress),
		SchoolPhone:    helper.TrimPtr(r.SchoolPhone),
		SchoolEmail:    helper.TrimPtr(r.SchoolEmail),
		SchoolTimezone: tz,
		SchoolIsActive: true,
	}
}

type UpdateSchoolRequest struct {
	SchoolName     *string `json:"school_name" validate:"omitempty,min=3,max=150"`
	SchoolAddress  *string `json:"school_address" validate:"omitempty"`
	SchoolPhone    *string `json:"school_phone" validate:"omitempty,max=30"`
	SchoolEmail    *string `json:"school_email" validate:"omitempty,email"`
	SchoolTimezone *string `json:"school_timezone" validate:"omitempty,timezone"`
	SchoolIsActive *bool   `json:"school_is_active" validate:"omitempty"`
}

func (r *UpdateSchoolRequest) ApplyToModel(m *model.SchoolModel) {
	if r.SchoolName != nil {
		m.SchoolName = strings.TrimSpace(*r.SchoolName)
	}
	if r.SchoolAddress != nil {
		m.SchoolAddress = helper.TrimPtr(r.SchoolAddress)
	}
	if r.SchoolPhone != nil {
		m.SchoolPhone = helper.TrimPtr(r.SchoolPhone)
	}
	if r.SchoolEmail != nil {
		m.SchoolEmail = helper.TrimPtr(r.SchoolEmail)
	}
	if r.SchoolTimezone != nil && strings.TrimSpace(*r.SchoolTimezone) != "" {
		m.SchoolTimezone = strings.TrimSpace(*r.SchoolTimezone)
	}
	if r.SchoolIsActive != nil {
		m.SchoolIsActive = *r.SchoolIsActive
	}
}

/* ===================== RESPONSES ===================== */

type SchoolResponse struct {
	SchoolID        uuid.UUID `json:"school_id"`
	SchoolName      string    `json:"school_name"`
	SchoolSlug      string    `json:"school_slug"`
	SchoolAddress   *string   `json:"school_address,omitempty"`
	SchoolPhone     *string   `json:"school_phone,omitempty"`
	SchoolEmail     *string   `json:"school_email,omitempty"`
	SchoolTimezone  string    `json:"school_timezone"`
	SchoolIsActive  bool      `json:"school_is_active"`
	SchoolCreatedAt time.Time `json:"school_created_at"`
	SchoolUpdatedAt time.Time `json:"school_updated_at"`
}

func FromModel(m *model.SchoolModel) SchoolResponse {
	return SchoolResponse{
		SchoolID:        m.SchoolID,
		SchoolName:      m.SchoolName,
		SchoolSlug:      m.SchoolSlug,
		SchoolAddress:   m.SchoolAddress,
		SchoolPhone:     m.SchoolPhone,
		SchoolEmail:     m.SchoolEmail,
		SchoolTimezone:  m.SchoolTimezone,
		SchoolIsActive:  m.SchoolIsActive,
		SchoolCreatedAt: m.SchoolCreatedAt,
		SchoolUpdatedAt: m.SchoolUpdatedAt,
	}
}

func firstNonBlank(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}
