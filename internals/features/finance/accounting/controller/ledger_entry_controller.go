package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/finance/accounting/dto"
	"schoolku_backend/internals/features/finance/accounting/model"
	"schoolku_backend/internals/features/finance/accounting/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
	scope "schoolku_backend/internals/middlewares/features"
)

const (
	summaryDefaultDays = 365
	summaryMaxDays     = 731
)

type LedgerController struct{ DB *gorm.DB }

func NewLedgerController(db *gorm.DB) *LedgerController { return &LedgerController{DB: db} }

// POST /ledger
func (h *LedgerController) Create(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateLedgerEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}

	m := req.ToModel(schoolID)
	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create ledger entry")
	}
	return helper.JsonCreated(c, "ledger entry created", dto.FromModel(m))
}

// GET /ledger
func (h *LedgerController) List(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "entry_date", "desc", helper.ExportOpts)

	var q dto.ListLedgerQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}

	tx := h.DB.WithContext(c.UserContext()).
		Model(&model.LedgerEntryModel{}).
		Where("ledger_entry_school_id = ?", schoolID)

	if k := strings.TrimSpace(q.Kind); k != "" {
		if !model.Kind(k).Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "kind must be income or expense")
		}
		tx = tx.Where("ledger_entry_kind = ?", k)
	}
	if cat := strings.TrimSpace(q.Category); cat != "" {
		tx = tx.Where("ledger_entry_category = ?", strings.ToLower(cat))
	}

	loc := dbtime.GetSchoolLocation(c)
	from, err := helper.QueryDate(c, "from", loc)
	if err != nil {
		return helper.FromError(c, err)
	}
	to, err := helper.QueryDate(c, "to", loc)
	if err != nil {
		return helper.FromError(c, err)
	}
	if from != nil && to != nil && from.After(*to) {
		return helper.JsonError(c, fiber.StatusBadRequest, "from must not be after to")
	}
	if from != nil {
		tx = tx.Where("ledger_entry_date >= ?", dbtime.DateOf(*from))
	}
	if to != nil {
		tx = tx.Where("ledger_entry_date <= ?", dbtime.DateOf(*to))
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count ledger entries")
	}
	order := p.OrderExpr(map[string]string{
		"entry_date": "ledger_entry_date",
		"amount":     "ledger_entry_amount",
		"category":   "ledger_entry_category",
		"created_at": "ledger_entry_created_at",
	}, "entry_date")

	var rows []model.LedgerEntryModel
	if err := tx.Order(order).Order("ledger_entry_created_at DESC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch ledger entries")
	}
	out := make([]dto.LedgerEntryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

// GET /ledger/:id
func (h *LedgerController) Get(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m))
}

// PATCH /ledger/:id
func (h *LedgerController) Update(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if m.AutoPosted() {
		return helper.JsonError(c, fiber.StatusConflict, "entry was posted by a fee payment and cannot be edited")
	}
	var req dto.UpdateLedgerEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}
	req.ApplyToModel(m)
	if err := h.DB.WithContext(c.UserContext()).Save(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update ledger entry")
	}
	return helper.JsonUpdated(c, "ledger entry updated", dto.FromModel(m))
}

// DELETE /ledger/:id
func (h *LedgerController) Delete(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if m.AutoPosted() {
		return helper.JsonError(c, fiber.StatusConflict, "entry was posted by a fee payment and cannot be deleted")
	}
	if err := h.DB.WithContext(c.UserContext()).Delete(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete ledger entry")
	}
	return helper.JsonDeleted(c, "ledger entry deleted", fiber.Map{"ledger_entry_id": m.LedgerEntryID})
}

// GET /ledger/summary
func (h *LedgerController) Summary(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	loc := dbtime.GetSchoolLocation(c)
	from, err := helper.QueryDate(c, "from", loc)
	if err != nil {
		return helper.FromError(c, err)
	}
	to, err := helper.QueryDate(c, "to", loc)
	if err != nil {
		return helper.FromError(c, err)
	}
	w, err := dbtime.ResolveWindow(from, to, dbtime.TodayInSchool(c), summaryDefaultDays, summaryMaxDays)
	switch {
	case errors.Is(err, dbtime.ErrWindowInverted):
		return helper.JsonError(c, fiber.StatusBadRequest, "from must not be after to")
	case errors.Is(err, dbtime.ErrWindowTooLong):
		return helper.JsonError(c, fiber.StatusBadRequest, fmt.Sprintf("window must not exceed %d days", summaryMaxDays))
	}

	var rows []model.LedgerEntryModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("ledger_entry_school_id = ?", schoolID).
		Where("ledger_entry_date BETWEEN ? AND ?", w.From, w.To).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch ledger entries")
	}
	return helper.JsonOK(c, "ok", service.Summarize(rows, w))
}

func (h *LedgerController) load(c *fiber.Ctx) (*model.LedgerEntryModel, error) {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.LedgerEntryModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("ledger_entry_school_id = ? AND ledger_entry_id = ?", schoolID, id).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
