package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	sectionCtl "schoolku_backend/internals/features/academics/sections/controller"
	"schoolku_backend/internals/features/communication/announcements/dto"
	"schoolku_backend/internals/features/communication/announcements/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
	scope "schoolku_backend/internals/middlewares/features"
)

type AnnouncementController struct{ DB *gorm.DB }

func NewAnnouncementController(db *gorm.DB) *AnnouncementController {
	return &AnnouncementController{DB: db}
}

// POST /announcements (JSON or multipart)
func (h *AnnouncementController) Create(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.CreateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}

	m := req.ToModel(schoolID, dbtime.TodayInSchool(c))
	if handled, err := h.check(c, schoolID, m); handled {
		return err
	}
	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create announcement")
	}
	return helper.JsonCreated(c, "announcement created", dto.FromModel(m, dbtime.TodayInSchool(c)))
}

// GET /announcements
func (h *AnnouncementController) List(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "publish_date", "desc", helper.AdminOpts)

	var q dto.ListAnnouncementQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	sectionID, err := helper.QueryUUID(c, "section_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	today := dbtime.TodayInSchool(c)

	tx := h.DB.WithContext(c.UserContext()).
		Model(&model.AnnouncementModel{}).
		Where("announcement_school_id = ?", schoolID)

	if a := strings.TrimSpace(q.Audience); a != "" {
		if !model.Audience(a).Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "audience must be one of all, students, staff, parents")
		}
		tx = tx.Where("announcement_audience = ?", a)
	}
	if sectionID != nil {
		includeGlobal := true
		if q.IncludeGlobal != nil {
			includeGlobal = *q.IncludeGlobal
		}
		if includeGlobal {
			tx = tx.Where("(announcement_section_id = ? OR announcement_section_id IS NULL)", *sectionID)
		} else {
			tx = tx.Where("announcement_section_id = ?", *sectionID)
		}
	}
	if q.ActiveOnly {
		tx = tx.Where("announcement_is_active = ?", true).
			Where("announcement_publish_date <= ?", today).
			Where("(announcement_expires_at IS NULL OR announcement_expires_at >= ?)", today)
	}
	if s := strings.TrimSpace(q.Q); s != "" {
		like := helper.LikePattern(s)
		tx = tx.Where("(LOWER(announcement_title) LIKE ? OR LOWER(announcement_content) LIKE ?)", like, like)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count announcements")
	}

	order := p.OrderExpr(map[string]string{
		"publish_date": "announcement_publish_date",
		"created_at":   "announcement_created_at",
		"title":        "announcement_title",
	}, "publish_date")

	var rows []model.AnnouncementModel
	if err := tx.
		Order("announcement_is_pinned DESC").
		Order(order).
		Order("announcement_created_at DESC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch announcements")
	}

	out := make([]dto.AnnouncementResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i], today))
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

// GET /announcements/:id
func (h *AnnouncementController) Get(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m, dbtime.TodayInSchool(c)))
}

// PATCH /announcements/:id (JSON or multipart)
func (h *AnnouncementController) Update(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.UpdateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}
	req.ApplyToModel(m)
	if handled, err := h.check(c, m.AnnouncementSchoolID, m); handled {
		return err
	}

	if err := h.DB.WithContext(c.UserContext()).Save(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update announcement")
	}
	return helper.JsonUpdated(c, "announcement updated", dto.FromModel(m, dbtime.TodayInSchool(c)))
}

// DELETE /announcements/:id
func (h *AnnouncementController) Delete(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := h.DB.WithContext(c.UserContext()).Delete(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete announcement")
	}
	return helper.JsonDeleted(c, "announcement deleted", fiber.Map{"announcement_id": m.AnnouncementID})
}

// check enforces expiry >= publish date and a live section.
// When handled is true the response is already written.
func (h *AnnouncementController) check(c *fiber.Ctx, schoolID uuid.UUID, m *model.AnnouncementModel) (bool, error) {
	if m.AnnouncementExpiresAt != nil && m.AnnouncementExpiresAt.Before(m.AnnouncementPublishDate) {
		return true, helper.JsonValidationError(c, map[string][]string{
			"announcement_expires_at": {"must be on or after announcement_publish_date"},
		})
	}
	if m.AnnouncementSectionID != nil {
		if err := sectionCtl.EnsureSection(h.DB.WithContext(c.UserContext()), schoolID, *m.AnnouncementSectionID); err != nil {
			return true, helper.FromError(c, err)
		}
	}
	return false, nil
}

func (h *AnnouncementController) load(c *fiber.Ctx) (*model.AnnouncementModel, error) {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.AnnouncementModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("announcement_school_id = ? AND announcement_id = ?", schoolID, id).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
