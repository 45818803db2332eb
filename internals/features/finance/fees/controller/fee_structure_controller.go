package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	sectionCtl "schoolku_backend/internals/features/academics/sections/controller"
	"schoolku_backend/internals/features/finance/fees/dto"
	"schoolku_backend/internals/features/finance/fees/model"
	"schoolku_backend/internals/features/finance/fees/service"
	helper "schoolku_backend/internals/helpers"
	scope "schoolku_backend/internals/middlewares/features"
)

// FeeController serves structures, dues, payments and the gateway webhook.
// Gateway is nil when online checkout is not configured.
type FeeController struct {
	DB        *gorm.DB
	Gateway   service.PaymentGateway
	ServerKey string
}

func NewFeeController(db *gorm.DB, gateway service.PaymentGateway, serverKey string) *FeeController {
	return &FeeController{DB: db, Gateway: gateway, ServerKey: serverKey}
}

// POST /fees/structures
func (h *FeeController) CreateStructure(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateStructureRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}

	m := req.ToModel(schoolID)
	if m.FeeStructureEndsOn.Before(m.FeeStructureStartsOn) {
		return helper.JsonValidationError(c, map[string][]string{
			"fee_structure_ends_on": {"must be on or after fee_structure_starts_on"},
		})
	}
	if m.FeeStructureSectionID != nil {
		if err := sectionCtl.EnsureSection(h.DB.WithContext(c.UserContext()), schoolID, *m.FeeStructureSectionID); err != nil {
			return helper.FromError(c, err)
		}
	}
	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create fee structure")
	}
	return helper.JsonCreated(c, "fee structure created", dto.FromStructure(m))
}

// GET /fees/structures
func (h *FeeController) ListStructures(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	tx := h.DB.WithContext(c.UserContext()).
		Model(&model.FeeStructureModel{}).
		Where("fee_structure_school_id = ?", schoolID)

	if f := strings.TrimSpace(c.Query("frequency")); f != "" {
		if !model.Frequency(f).Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "frequency must be one of one_time, monthly, termly, yearly")
		}
		tx = tx.Where("fee_structure_frequency = ?", f)
	}
	sectionID, err := helper.QueryUUID(c, "section_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if sectionID != nil {
		tx = tx.Where("(fee_structure_section_id = ? OR fee_structure_section_id IS NULL)", *sectionID)
	}
	active, err := helper.QueryBool(c, "is_active")
	if err != nil {
		return helper.FromError(c, err)
	}
	if active != nil {
		tx = tx.Where("fee_structure_is_active = ?", *active)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		tx = tx.Where("LOWER(fee_structure_name) LIKE ?", helper.LikePattern(q))
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count fee structures")
	}
	order := p.OrderExpr(map[string]string{
		"created_at": "fee_structure_created_at",
		"name":       "fee_structure_name",
		"amount":     "fee_structure_amount",
		"starts_on":  "fee_structure_starts_on",
	}, "created_at")

	var rows []model.FeeStructureModel
	if err := tx.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch fee structures")
	}
	out := make([]dto.StructureResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromStructure(&rows[i]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

// GET /fees/structures/:id
func (h *FeeController) GetStructure(c *fiber.Ctx) error {
	m, err := h.loadStructure(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromStructure(m))
}

// PATCH /fees/structures/:id
func (h *FeeController) UpdateStructure(c *fiber.Ctx) error {
	m, err := h.loadStructure(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateStructureRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}
	req.ApplyToModel(m)
	if m.FeeStructureEndsOn.Before(m.FeeStructureStartsOn) {
		return helper.JsonValidationError(c, map[string][]string{
			"fee_structure_ends_on": {"must be on or after fee_structure_starts_on"},
		})
	}
	if err := h.DB.WithContext(c.UserContext()).Save(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update fee structure")
	}
	return helper.JsonUpdated(c, "fee structure updated", dto.FromStructure(m))
}

// DELETE /fees/structures/:id removes the structure with its unpaid dues.
// A structure with any recorded payment is kept.
func (h *FeeController) DeleteStructure(c *fiber.Ctx) error {
	m, err := h.loadStructure(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var paid int64
		if err := tx.Model(&model.StudentFeeModel{}).
			Where("student_fee_structure_id = ? AND student_fee_paid_amount > 0", m.FeeStructureID).
			Count(&paid).Error; err != nil {
			return err
		}
		if paid > 0 {
			return errStructureHasPayments
		}
		if err := tx.Where("student_fee_structure_id = ?", m.FeeStructureID).
			Delete(&model.StudentFeeModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(m).Error
	})
	if errors.Is(err, errStructureHasPayments) {
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete fee structure")
	}
	return helper.JsonDeleted(c, "fee structure deleted", fiber.Map{"fee_structure_id": m.FeeStructureID})
}

// POST /fees/structures/:id/assign
func (h *FeeController) Assign(c *fiber.Ctx) error {
	m, err := h.loadStructure(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	res, err := service.Assign(c.UserContext(), h.DB, m, nil)
	if errors.Is(err, service.ErrStructureInactive) {
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to assign dues")
	}
	return helper.JsonOK(c, "dues assigned", res)
}

var errStructureHasPayments = errors.New("fee structure has recorded payments")

func (h *FeeController) loadStructure(c *fiber.Ctx) (*model.FeeStructureModel, error) {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.FeeStructureModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("fee_structure_school_id = ? AND fee_structure_id = ?", schoolID, id).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
