package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/schools/schools/dto"
	"schoolku_backend/internals/features/schools/schools/model"
	helper "schoolku_backend/internals/helpers"
	scope "schoolku_backend/internals/middlewares/features"
)

type SchoolController struct{ DB *gorm.DB }

func NewSchoolController(db *gorm.DB) *SchoolController { return &SchoolController{DB: db} }

// POST /api/public/schools
func (h *SchoolController) Create(c *fiber.Ctx) error {
	var req dto.CreateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}

	m := req.ToModel()
	slug, err := helper.EnsureUniqueSlug(c.UserContext(), h.DB, "schools", "school_slug", "school_deleted_at", m.SchoolSlug, 160)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to generate slug")
	}
	m.SchoolSlug = slug

	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create school")
	}
	return helper.JsonCreated(c, "school created", dto.FromModel(m))
}

// GET /api/public/schools
func (h *SchoolController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)

	tx := h.DB.WithContext(c.UserContext()).Model(&model.SchoolModel{}).Where("school_is_active = ?", true)
	if q := c.Query("q"); q != "" {
		tx = tx.Where("LOWER(school_name) LIKE ?", helper.LikePattern(q))
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count schools")
	}

	order := p.OrderExpr(map[string]string{
		"name":       "school_name",
		"created_at": "school_created_at",
	}, "name")

	var rows []model.SchoolModel
	if err := tx.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch schools")
	}

	out := make([]dto.SchoolResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

// GET /api/public/schools/:slug
func (h *SchoolController) GetBySlug(c *fiber.Ctx) error {
	var m model.SchoolModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("school_slug = ?", c.Params("slug")).
		First(&m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(&m))
}

// GET /api/a/:school_id/profile
func (h *SchoolController) Profile(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var m model.SchoolModel
	if err := h.DB.WithContext(c.UserContext()).First(&m, "school_id = ?", schoolID).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(&m))
}

// PATCH /api/a/:school_id/profile
func (h *SchoolController) UpdateProfile(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}

	var m model.SchoolModel
	if err := h.DB.WithContext(c.UserContext()).First(&m, "school_id = ?", schoolID).Error; err != nil {
		return helper.FromError(c, err)
	}
	req.ApplyToModel(&m)
	if err := h.DB.WithContext(c.UserContext()).Save(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update school")
	}
	return helper.JsonUpdated(c, "school updated", dto.FromModel(&m))
}
