package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/staff/leaves/dto"
	"schoolku_backend/internals/features/staff/leaves/model"
	"schoolku_backend/internals/features/staff/leaves/service"
	staffCtl "schoolku_backend/internals/features/staff/members/controller"
	staffModel "schoolku_backend/internals/features/staff/members/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
	scope "schoolku_backend/internals/middlewares/features"
)

type LeaveController struct{ DB *gorm.DB }

func NewLeaveController(db *gorm.DB) *LeaveController { return &LeaveController{DB: db} }

// POST /staff-leaves
func (h *LeaveController) Create(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.CreateLeaveRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}

	m := req.ToModel(schoolID)
	days, err := service.Duration(m.StaffLeaveStartDate, m.StaffLeaveEndDate, m.StaffLeaveHalfDay)
	switch {
	case errors.Is(err, service.ErrRangeInverted):
		return helper.JsonValidationError(c, map[string][]string{"staff_leave_end_date": {err.Error()}})
	case errors.Is(err, service.ErrHalfDayRange):
		return helper.JsonValidationError(c, map[string][]string{"staff_leave_half_day": {err.Error()}})
	case errors.Is(err, service.ErrNoWorkingDays):
		return helper.JsonValidationError(c, map[string][]string{"staff_leave_start_date": {err.Error()}})
	case err != nil:
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	m.StaffLeaveDays = days

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if _, err := staffCtl.FindStaff(tx, schoolID, m.StaffLeaveStaffID); err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&model.StaffLeaveModel{}).
			Where("staff_leave_school_id = ? AND staff_leave_staff_id = ?", schoolID, m.StaffLeaveStaffID).
			Where("staff_leave_status IN ?", model.Blocking).
			Where("staff_leave_start_date <= ? AND staff_leave_end_date >= ?", m.StaffLeaveEndDate, m.StaffLeaveStartDate).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return service.ErrOverlap
		}
		return tx.Create(m).Error
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "staff not found")
	case errors.Is(err, service.ErrOverlap):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case err != nil:
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create leave")
	}
	return helper.JsonCreated(c, "leave requested", dto.FromModel(m))
}

// GET /staff-leaves
func (h *LeaveController) List(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "start_date", "desc", helper.AdminOpts)

	tx := h.DB.WithContext(c.UserContext()).
		Model(&model.StaffLeaveModel{}).
		Where("staff_leave_school_id = ?", schoolID)

	staffID, err := helper.QueryUUID(c, "staff_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if staffID != nil {
		tx = tx.Where("staff_leave_staff_id = ?", *staffID)
	}
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		if !model.LeaveStatus(s).Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "status must be one of pending, approved, rejected")
		}
		tx = tx.Where("staff_leave_status = ?", s)
	}
	if t := strings.TrimSpace(c.Query("type")); t != "" {
		tx = tx.Where("staff_leave_type = ?", t)
	}
	// from/to select leaves touching the range
	loc := dbtime.GetSchoolLocation(c)
	from, err := helper.QueryDate(c, "from", loc)
	if err != nil {
		return helper.FromError(c, err)
	}
	to, err := helper.QueryDate(c, "to", loc)
	if err != nil {
		return helper.FromError(c, err)
	}
	if from != nil {
		tx = tx.Where("staff_leave_end_date >= ?", dbtime.DateOf(*from))
	}
	if to != nil {
		tx = tx.Where("staff_leave_start_date <= ?", dbtime.DateOf(*to))
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count leaves")
	}
	order := p.OrderExpr(map[string]string{
		"start_date": "staff_leave_start_date",
		"status":     "staff_leave_status",
		"created_at": "staff_leave_created_at",
	}, "start_date")

	var rows []model.StaffLeaveModel
	if err := tx.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch leaves")
	}

	names, err := staffNames(h.DB.WithContext(c.UserContext()), rows)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch staff")
	}
	out := make([]dto.LeaveResponse, 0, len(rows))
	for i := range rows {
		r := dto.FromModel(&rows[i])
		r.StaffLeaveStaffName = names[rows[i].StaffLeaveStaffID]
		out = append(out, r)
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

// GET /staff-leaves/:id
func (h *LeaveController) Get(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m))
}

// POST /staff-leaves/:id/approve
func (h *LeaveController) Approve(c *fiber.Ctx) error {
	return h.decide(c, model.LeaveApproved)
}

// POST /staff-leaves/:id/reject
func (h *LeaveController) Reject(c *fiber.Ctx) error {
	return h.decide(c, model.LeaveRejected)
}

func (h *LeaveController) decide(c *fiber.Ctx, to model.LeaveStatus) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.DecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}
	if err := service.Decide(m, to, helper.TrimPtr(req.Note), time.Now()); err != nil {
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	}
	res := h.DB.WithContext(c.UserContext()).
		Model(&model.StaffLeaveModel{}).
		Where("staff_leave_id = ? AND staff_leave_status = ?", m.StaffLeaveID, model.LeavePending).
		Updates(map[string]any{
			"staff_leave_status":        m.StaffLeaveStatus,
			"staff_leave_decided_at":    m.StaffLeaveDecidedAt,
			"staff_leave_decision_note": m.StaffLeaveDecisionNote,
		})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update leave")
	}
	// lost a race with another decision
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusConflict, service.ErrNotPending.Error())
	}
	return helper.JsonUpdated(c, "leave "+string(to), dto.FromModel(m))
}

// DELETE /staff-leaves/:id only while pending
func (h *LeaveController) Delete(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if m.StaffLeaveStatus != model.LeavePending {
		return helper.JsonError(c, fiber.StatusConflict, "only pending leaves can be deleted")
	}
	if err := h.DB.WithContext(c.UserContext()).Delete(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete leave")
	}
	return helper.JsonDeleted(c, "leave deleted", fiber.Map{"staff_leave_id": m.StaffLeaveID})
}

func (h *LeaveController) load(c *fiber.Ctx) (*model.StaffLeaveModel, error) {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.StaffLeaveModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("staff_leave_school_id = ? AND staff_leave_id = ?", schoolID, id).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func staffNames(db *gorm.DB, rows []model.StaffLeaveModel) (map[uuid.UUID]string, error) {
	out := map[uuid.UUID]string{}
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.StaffLeaveStaffID)
	}
	var staff []staffModel.StaffModel
	if err := db.Unscoped().
		Select("staff_id", "staff_full_name").
		Where("staff_id IN ?", ids).
		Find(&staff).Error; err != nil {
		return nil, err
	}
	for _, s := range staff {
		out[s.StaffID] = s.StaffFullName
	}
	return out, nil
}
