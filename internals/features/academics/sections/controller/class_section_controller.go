package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/academics/sections/dto"
	"schoolku_backend/internals/features/academics/sections/model"
	studentModel "schoolku_backend/internals/features/academics/students/model"
	helper "schoolku_backend/internals/helpers"
	scope "schoolku_backend/internals/middlewares/features"
)

type ClassSectionController struct{ DB *gorm.DB }

func NewClassSectionController(db *gorm.DB) *ClassSectionController {
	return &ClassSectionController{DB: db}
}

// POST /class-sections
func (h *ClassSectionController) Create(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.CreateClassSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}

	m := req.ToModel(schoolID)
	dup, err := h.duplicateExists(c, m, nil)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to check duplicates")
	}
	if dup {
		return helper.JsonError(c, fiber.StatusConflict, "section already exists for this class and academic year")
	}

	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create section")
	}
	return helper.JsonCreated(c, "section created", dto.FromModel(m))
}

// GET /class-sections
func (h *ClassSectionController) List(c *fiber.Ctx) error {
	// 1) tenant
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	// 2) paging + filters
	p := helper.ParseFiber(c, "class_name", "asc", helper.AdminOpts)
	var q dto.ListClassSectionQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}

	// 3) base query
	tx := h.DB.WithContext(c.UserContext()).
		Model(&model.ClassSectionModel{}).
		Where("class_section_school_id = ?", schoolID)
	if s := strings.TrimSpace(q.Q); s != "" {
		like := helper.LikePattern(s)
		tx = tx.Where("(LOWER(class_section_class_name) LIKE ? OR LOWER(class_section_name) LIKE ?)", like, like)
	}
	if s := strings.TrimSpace(q.AcademicYear); s != "" {
		tx = tx.Where("class_section_academic_year = ?", s)
	}
	if s := strings.TrimSpace(q.ClassName); s != "" {
		tx = tx.Where("class_section_class_name = ?", s)
	}

	// 4) count
	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count sections")
	}

	// 5) page
	order := p.OrderExpr(map[string]string{
		"class_name":    "class_section_class_name",
		"section_name":  "class_section_name",
		"academic_year": "class_section_academic_year",
		"created_at":    "class_section_created_at",
	}, "class_name")

	var rows []model.ClassSectionModel
	if err := tx.Order(order).Order("class_section_name ASC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch sections")
	}

	// 6) batch student counts
	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ClassSectionID)
	}
	counts, err := StudentCounts(h.DB.WithContext(c.UserContext()), schoolID, ids)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count students")
	}

	out := make([]dto.ClassSectionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]).WithStudentCount(counts[rows[i].ClassSectionID]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

// GET /class-sections/:id
func (h *ClassSectionController) Get(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	counts, err := StudentCounts(h.DB.WithContext(c.UserContext()), m.ClassSectionSchoolID, []uuid.UUID{m.ClassSectionID})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count students")
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m).WithStudentCount(counts[m.ClassSectionID]))
}

// PATCH /class-sections/:id
func (h *ClassSectionController) Update(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.UpdateClassSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}
	req.ApplyToModel(m)

	dup, err := h.duplicateExists(c, m, &m.ClassSectionID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to check duplicates")
	}
	if dup {
		return helper.JsonError(c, fiber.StatusConflict, "section already exists for this class and academic year")
	}

	if err := h.DB.WithContext(c.UserContext()).Save(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update section")
	}
	return helper.JsonUpdated(c, "section updated", dto.FromModel(m))
}

// DELETE /class-sections/:id
func (h *ClassSectionController) Delete(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var enrolled int64
	if err := h.DB.WithContext(c.UserContext()).
		Model(&studentModel.StudentModel{}).
		Where("student_school_id = ? AND student_section_id = ?", m.ClassSectionSchoolID, m.ClassSectionID).
		Count(&enrolled).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count students")
	}
	if enrolled > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "section still has enrolled students")
	}

	if err := h.DB.WithContext(c.UserContext()).Delete(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete section")
	}
	return helper.JsonDeleted(c, "section deleted", fiber.Map{"class_section_id": m.ClassSectionID})
}

func (h *ClassSectionController) load(c *fiber.Ctx) (*model.ClassSectionModel, error) {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.ClassSectionModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("class_section_school_id = ? AND class_section_id = ?", schoolID, id).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (h *ClassSectionController) duplicateExists(c *fiber.Ctx, m *model.ClassSectionModel, except *uuid.UUID) (bool, error) {
	tx := h.DB.WithContext(c.UserContext()).
		Model(&model.ClassSectionModel{}).
		Where("class_section_school_id = ?", m.ClassSectionSchoolID).
		Where("LOWER(class_section_class_name) = ?", strings.ToLower(m.ClassSectionClassName)).
		Where("LOWER(class_section_name) = ?", strings.ToLower(m.ClassSectionName)).
		Where("class_section_academic_year = ?", m.ClassSectionAcademicYear)
	if except != nil {
		tx = tx.Where("class_section_id <> ?", *except)
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// StudentCounts returns live student counts keyed by section.
func StudentCounts(db *gorm.DB, schoolID uuid.UUID, sectionIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(sectionIDs))
	if len(sectionIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		SectionID uuid.UUID
		N         int64
	}
	if err := db.Model(&studentModel.StudentModel{}).
		Select("student_section_id AS section_id, COUNT(*) AS n").
		Where("student_school_id = ? AND student_section_id IN ?", schoolID, sectionIDs).
		Group("student_section_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.SectionID] = r.N
	}
	return out, nil
}

// EnsureSection returns a 404 fiber error when the section is not a live row of the school.
func EnsureSection(db *gorm.DB, schoolID, sectionID uuid.UUID) error {
	var n int64
	if err := db.Model(&model.ClassSectionModel{}).
		Where("class_section_school_id = ? AND class_section_id = ?", schoolID, sectionID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fiber.NewError(fiber.StatusNotFound, "section not found")
	}
	return nil
}
