package seeds

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	schoolModel "schoolku_backend/internals/features/schools/schools/model"
	helper "schoolku_backend/internals/helpers"
)

type schoolSeed struct {
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Timezone string  `json:"timezone"`
}

func SeedSchoolsFromJSON(ctx context.Context, db *gorm.DB, path string) (int, error) {
	rows, err := readJSON[schoolSeed](path)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, s := range rows {
		slug := s.Slug
		if slug == "" {
			slug = helper.Slugify(s.Name, 100)
		}
		var existing schoolModel.SchoolModel
		err := db.WithContext(ctx).Where("school_slug = ?", slug).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return n, err
		}
		tz := s.Timezone
		if tz == "" {
			tz = "Asia/Jakarta"
		}
		m := schoolModel.SchoolModel{
			SchoolName:     s.Name,
			SchoolSlug:     slug,
			SchoolAddress:  s.Address,
			SchoolPhone:    s.Phone,
			SchoolEmail:    s.Email,
			SchoolTimezone: tz,
			SchoolIsActive: true,
		}
		if err := db.WithContext(ctx).Create(&m).Error; err != nil {
			return n, fmt.Errorf("school %s: %w", slug, err)
		}
		n++
	}
	return n, nil
}

// schoolIDs caches slug lookups for one seed file.
type schoolIDs struct {
	db    *gorm.DB
	cache map[string]uuid.UUID
}

func newSchoolIDs(db *gorm.DB) *schoolIDs {
	return &schoolIDs{db: db, cache: map[string]uuid.UUID{}}
}

func (s *schoolIDs) get(ctx context.Context, slug string) (uuid.UUID, error) {
	if id, ok := s.cache[slug]; ok {
		return id, nil
	}
	var m schoolModel.SchoolModel
	if err := s.db.WithContext(ctx).Select("school_id").Where("school_slug = ?", slug).First(&m).Error; err != nil {
		return uuid.Nil, fmt.Errorf("school %q: %w", slug, err)
	}
	s.cache[slug] = m.SchoolID
	return m.SchoolID, nil
}
