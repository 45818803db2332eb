package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Audience string

const (
	AudienceAll      Audience = "all"
	AudienceStudents Audience = "students"
	AudienceStaff    Audience = "staff"
	AudienceParents  Audience = "parents"
)

func (a Audience) Valid() bool {
	switch a {
	case AudienceAll, AudienceStudents, AudienceStaff, AudienceParents:
		return true
	}
	return false
}

// AnnouncementModel: a NULL section means school-wide.
type AnnouncementModel struct {
	AnnouncementID        uuid.UUID  `gorm:"column:announcement_id;type:uuid;primaryKey" json:"announcement_id"`
	AnnouncementSchoolID  uuid.UUID  `gorm:"column:announcement_school_id;type:uuid;not null;index:idx_announcements_school_publish,priority:1" json:"announcement_school_id"`
	AnnouncementSectionID *uuid.UUID `gorm:"column:announcement_section_id;type:uuid;index" json:"announcement_section_id,omitempty"`

	AnnouncementTitle       string     `gorm:"column:announcement_title;type:varchar(200);not null" json:"announcement_title"`
	AnnouncementContent     string     `gorm:"column:announcement_content;type:text;not null" json:"announcement_content"`
	AnnouncementAudience    Audience   `gorm:"column:announcement_audience;type:varchar(10);not null" json:"announcement_audience"`
	AnnouncementPublishDate time.Time  `gorm:"column:announcement_publish_date;type:date;not null;index:idx_announcements_school_publish,priority:2" json:"announcement_publish_date"`
	AnnouncementExpiresAt   *time.Time `gorm:"column:announcement_expires_at;type:date" json:"announcement_expires_at,omitempty"`
	AnnouncementIsPinned    bool       `gorm:"column:announcement_is_pinned;not null" json:"announcement_is_pinned"`
	AnnouncementIsActive    bool       `gorm:"column:announcement_is_active;not null" json:"announcement_is_active"`

	AnnouncementCreatedAt time.Time      `gorm:"column:announcement_created_at;not null;autoCreateTime" json:"announcement_created_at"`
	AnnouncementUpdatedAt time.Time      `gorm:"column:announcement_updated_at;not null;autoUpdateTime" json:"announcement_updated_at"`
	AnnouncementDeletedAt gorm.DeletedAt `gorm:"column:announcement_deleted_at;index" json:"-"`
}

func (AnnouncementModel) TableName() string { return "announcements" }

func (m *AnnouncementModel) BeforeCreate(tx *gorm.DB) error {
	if m.AnnouncementID == uuid.Nil {
		m.AnnouncementID = uuid.New()
	}
	return nil
}

// LiveOn reports whether the announcement is shown on day d.
func (m *AnnouncementModel) LiveOn(d time.Time) bool {
	if !m.AnnouncementIsActive || m.AnnouncementPublishDate.After(d) {
		return false
	}
	return m.AnnouncementExpiresAt == nil || !m.AnnouncementExpiresAt.Before(d)
}
