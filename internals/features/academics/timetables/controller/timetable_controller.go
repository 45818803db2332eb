package controller

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	sectionCtl "schoolku_backend/internals/features/academics/sections/controller"
	"schoolku_backend/internals/features/academics/timetables/dto"
	"schoolku_backend/internals/features/academics/timetables/model"
	"schoolku_backend/internals/features/academics/timetables/service"
	helper "schoolku_backend/internals/helpers"
	scope "schoolku_backend/internals/middlewares/features"
)

type TimetableController struct {
	DB     *gorm.DB
	Window service.DayWindow
}

func NewTimetableController(db *gorm.DB, window service.DayWindow) *TimetableController {
	return &TimetableController{DB: db, Window: window}
}

// POST /timetables
func (h *TimetableController) Create(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.CreateSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}
	m := req.ToModel(schoolID)

	if err := sectionCtl.EnsureSection(h.DB.WithContext(c.UserContext()), schoolID, m.TimetableSlotSectionID); err != nil {
		return helper.FromError(c, err)
	}
	if err := h.validate(c, &m); err != nil {
		return h.writeSlotError(c, err)
	}

	if err := h.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create slot")
	}
	return helper.JsonCreated(c, "slot created", dto.FromModel(&m))
}

// GET /timetables
func (h *TimetableController) List(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "day", "asc", helper.AdminOpts)

	tx, err := h.filtered(c, schoolID)
	if err != nil {
		return helper.FromError(c, err)
	}
	if d := c.QueryInt("day_of_week", 0); d != 0 {
		if d < 1 || d > 7 {
			return helper.JsonError(c, fiber.StatusBadRequest, "day_of_week must be 1..7")
		}
		tx = tx.Where("timetable_slot_day_of_week = ?", d)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count slots")
	}

	order := p.OrderExpr(map[string]string{
		"day":     "timetable_slot_day_of_week",
		"subject": "timetable_slot_subject",
	}, "day")

	var rows []model.TimetableSlotModel
	if err := tx.Order(order).Order("timetable_slot_start_time ASC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch slots")
	}

	out := make([]dto.SlotResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

// GET /timetables/weekly?section_id=|staff_id=
func (h *TimetableController) Weekly(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if c.Query("section_id") == "" && c.Query("staff_id") == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "section_id or staff_id is required")
	}
	tx, err := h.filtered(c, schoolID)
	if err != nil {
		return helper.FromError(c, err)
	}

	var rows []model.TimetableSlotModel
	if err := tx.Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch slots")
	}
	return helper.JsonOK(c, "ok", service.Weekly(rows))
}

// PATCH /timetables/:id
func (h *TimetableController) Update(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.UpdateSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}
	before := m.TimetableSlotSectionID
	req.ApplyToModel(m)

	if m.TimetableSlotSectionID != before {
		if err := sectionCtl.EnsureSection(h.DB.WithContext(c.UserContext()), m.TimetableSlotSchoolID, m.TimetableSlotSectionID); err != nil {
			return helper.FromError(c, err)
		}
	}
	if err := h.validate(c, m); err != nil {
		return h.writeSlotError(c, err)
	}

	if err := h.DB.WithContext(c.UserContext()).Save(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update slot")
	}
	return helper.JsonUpdated(c, "slot updated", dto.FromModel(m))
}

// DELETE /timetables/:id
func (h *TimetableController) Delete(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := h.DB.WithContext(c.UserContext()).Delete(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete slot")
	}
	return helper.JsonDeleted(c, "slot deleted", fiber.Map{"timetable_slot_id": m.TimetableSlotID})
}

type slotConflict struct {
	scope string
	other *model.TimetableSlotModel
}

func (e *slotConflict) Error() string {
	return fmt.Sprintf("overlaps %s slot %s %s-%s", e.scope, e.other.TimetableSlotSubject,
		e.other.TimetableSlotStartTime, e.other.TimetableSlotEndTime)
}

// validate checks bounds, then clashes within the section and for the teacher.
func (h *TimetableController) validate(c *fiber.Ctx, m *model.TimetableSlotModel) error {
	if err := h.Window.CheckBounds(m.TimetableSlotStartTime, m.TimetableSlotEndTime); err != nil {
		return err
	}

	base := func() *gorm.DB {
		return h.DB.WithContext(c.UserContext()).
			Where("timetable_slot_school_id = ? AND timetable_slot_day_of_week = ?", m.TimetableSlotSchoolID, m.TimetableSlotDayOfWeek)
	}

	var sameSection []model.TimetableSlotModel
	if err := base().Where("timetable_slot_section_id = ?", m.TimetableSlotSectionID).Find(&sameSection).Error; err != nil {
		return err
	}
	if other := service.Clash(*m, sameSection); other != nil {
		return &slotConflict{scope: "section", other: other}
	}

	if m.TimetableSlotStaffID != nil {
		var sameStaff []model.TimetableSlotModel
		if err := base().Where("timetable_slot_staff_id = ?", *m.TimetableSlotStaffID).Find(&sameStaff).Error; err != nil {
			return err
		}
		if other := service.Clash(*m, sameStaff); other != nil {
			return &slotConflict{scope: "teacher", other: other}
		}
	}
	return nil
}

func (h *TimetableController) writeSlotError(c *fiber.Ctx, err error) error {
	var sc *slotConflict
	switch {
	case errors.As(err, &sc):
		return helper.JsonError(c, fiber.StatusConflict, sc.Error())
	case errors.Is(err, service.ErrStartNotBeforeEnd):
		return helper.JsonValidationError(c, map[string][]string{"timetable_slot_end_time": {err.Error()}})
	case errors.Is(err, service.ErrOutsideSchoolDay):
		return helper.JsonValidationError(c, map[string][]string{"timetable_slot_start_time": {err.Error()}})
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to validate slot")
	}
}

func (h *TimetableController) filtered(c *fiber.Ctx, schoolID uuid.UUID) (*gorm.DB, error) {
	tx := h.DB.WithContext(c.UserContext()).
		Model(&model.TimetableSlotModel{}).
		Where("timetable_slot_school_id = ?", schoolID)

	sectionID, err := helper.QueryUUID(c, "section_id")
	if err != nil {
		return nil, err
	}
	if sectionID != nil {
		tx = tx.Where("timetable_slot_section_id = ?", *sectionID)
	}
	staffID, err := helper.QueryUUID(c, "staff_id")
	if err != nil {
		return nil, err
	}
	if staffID != nil {
		tx = tx.Where("timetable_slot_staff_id = ?", *staffID)
	}
	return tx, nil
}

func (h *TimetableController) load(c *fiber.Ctx) (*model.TimetableSlotModel, error) {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.TimetableSlotModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("timetable_slot_school_id = ? AND timetable_slot_id = ?", schoolID, id).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
