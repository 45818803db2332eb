package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/staff/members/dto"
	"schoolku_backend/internals/features/staff/members/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
	scope "schoolku_backend/internals/middlewares/features"
)

var ErrEmployeeNoTaken = errors.New("employee number already used")

type StaffController struct{ DB *gorm.DB }

func NewStaffController(db *gorm.DB) *StaffController { return &StaffController{DB: db} }

// POST /staff
func (h *StaffController) Create(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}

	m := req.ToModel(schoolID, dbtime.TodayInSchool(c))
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := ensureEmployeeNoFree(tx, m, nil); err != nil {
			return err
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return writeStaffError(c, err, "failed to create staff")
	}
	return helper.JsonCreated(c, "staff created", dto.FromModel(m))
}

// GET /staff
func (h *StaffController) List(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "full_name", "asc", helper.AdminOpts)

	var q dto.ListStaffQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}

	tx := h.DB.WithContext(c.UserContext()).
		Model(&model.StaffModel{}).
		Where("staff_school_id = ?", schoolID)

	if r := strings.TrimSpace(q.Role); r != "" {
		if !model.Role(r).Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "role must be one of teacher, admin, accountant, librarian, support")
		}
		tx = tx.Where("staff_role = ?", r)
	}
	if d := strings.TrimSpace(q.Department); d != "" {
		tx = tx.Where("LOWER(staff_department) = ?", strings.ToLower(d))
	}
	isActive, err := helper.QueryBool(c, "is_active")
	if err != nil {
		return helper.FromError(c, err)
	}
	if isActive != nil {
		tx = tx.Where("staff_is_active = ?", *isActive)
	}
	if s := strings.TrimSpace(q.Q); s != "" {
		like := helper.LikePattern(s)
		tx = tx.Where("(LOWER(staff_full_name) LIKE ? OR LOWER(staff_employee_no) LIKE ? OR LOWER(staff_email) LIKE ?)", like, like, like)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count staff")
	}

	order := p.OrderExpr(map[string]string{
		"full_name":   "staff_full_name",
		"employee_no": "staff_employee_no",
		"role":        "staff_role",
		"join_date":   "staff_join_date",
		"created_at":  "staff_created_at",
	}, "full_name")

	var rows []model.StaffModel
	if err := tx.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch staff")
	}
	out := make([]dto.StaffResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

// GET /staff/:id
func (h *StaffController) Get(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m))
}

// PATCH /staff/:id
func (h *StaffController) Update(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.UpdateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}
	req.ApplyToModel(m)

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := ensureEmployeeNoFree(tx, m, &m.StaffID); err != nil {
			return err
		}
		return tx.Save(m).Error
	})
	if err != nil {
		return writeStaffError(c, err, "failed to update staff")
	}
	return helper.JsonUpdated(c, "staff updated", dto.FromModel(m))
}

// DELETE /staff/:id
func (h *StaffController) Delete(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := h.DB.WithContext(c.UserContext()).Delete(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete staff")
	}
	return helper.JsonDeleted(c, "staff deleted", fiber.Map{"staff_id": m.StaffID})
}

func (h *StaffController) load(c *fiber.Ctx) (*model.StaffModel, error) {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return nil, err
	}
	return FindStaff(h.DB.WithContext(c.UserContext()), schoolID, id)
}

// FindStaff loads a live staff member of the school.
func FindStaff(db *gorm.DB, schoolID, id uuid.UUID) (*model.StaffModel, error) {
	var m model.StaffModel
	if err := db.Where("staff_school_id = ? AND staff_id = ?", schoolID, id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func ensureEmployeeNoFree(tx *gorm.DB, m *model.StaffModel, except *uuid.UUID) error {
	var n int64
	q := tx.Model(&model.StaffModel{}).
		Where("staff_school_id = ? AND staff_employee_no = ?", m.StaffSchoolID, m.StaffEmployeeNo)
	if except != nil {
		q = q.Where("staff_id <> ?", *except)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrEmployeeNoTaken
	}
	return nil
}

func writeStaffError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, ErrEmployeeNoTaken) {
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
}
