package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	schoolModel "schoolku_backend/internals/features/schools/schools/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
)

const (
	LocSchoolID    = "school_id"
	HeaderSchoolID = "X-School-ID"
)

// UseSchoolScope resolves the tenant for /api/a/:school_id/... routes.
// Order: path param, then X-School-ID header. The school must exist and be active.
func UseSchoolScope(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params("school_id"))
		if raw == "" {
			raw = schoolIDFromPath(c.Path())
		}
		if raw == "" {
			raw = strings.TrimSpace(c.Get(HeaderSchoolID))
		}
		if raw == "" {
			return helper.JsonError(c, fiber.StatusBadRequest, "school_id is required")
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "school_id is not a valid uuid")
		}

		var s schoolModel.SchoolModel
		err = db.WithContext(c.UserContext()).
			Select("school_id", "school_timezone", "school_is_active").
			First(&s, "school_id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "school not found")
		}
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to resolve school")
		}
		if !s.SchoolIsActive {
			return helper.JsonError(c, fiber.StatusForbidden, "school is inactive")
		}

		c.Locals(LocSchoolID, id)
		c.Locals(dbtime.LocSchoolTimezone, s.SchoolTimezone)
		c.Locals(dbtime.LocSchoolLoc, dbtime.LoadLocation(s.SchoolTimezone))
		return c.Next()
	}
}

// GetSchoolID reads the tenant set by UseSchoolScope.
func GetSchoolID(c *fiber.Ctx) (uuid.UUID, error) {
	switch v := c.Locals(LocSchoolID).(type) {
	case uuid.UUID:
		if v != uuid.Nil {
			return v, nil
		}
	case string:
		if id, err := uuid.Parse(v); err == nil {
			return id, nil
		}
	}
	return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "school context missing")
}

// "/api/a/<id>/..." → "<id>"
func schoolIDFromPath(p string) string {
	const prefix = "/api/a/"
	if !strings.HasPrefix(p, prefix) {
		return ""
	}
	rest := strings.TrimPrefix(p, prefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimSpace(rest)
}
