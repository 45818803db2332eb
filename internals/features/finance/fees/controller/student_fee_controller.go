package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	studentModel "schoolku_backend/internals/features/academics/students/model"
	"schoolku_backend/internals/features/finance/fees/dto"
	"schoolku_backend/internals/features/finance/fees/model"
	"schoolku_backend/internals/features/finance/fees/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
	"schoolku_backend/internals/helpers/logx"
	scope "schoolku_backend/internals/middlewares/features"
)

// GET /fees/dues
func (h *FeeController) ListDues(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "due_date", "asc", helper.ExportOpts)
	today := dbtime.TodayInSchool(c)

	tx := h.DB.WithContext(c.UserContext()).
		Model(&model.StudentFeeModel{}).
		Where("student_fee_school_id = ?", schoolID)

	for _, f := range []struct{ param, column string }{
		{"student_id", "student_fee_student_id"},
		{"structure_id", "student_fee_structure_id"},
	} {
		id, err := helper.QueryUUID(c, f.param)
		if err != nil {
			return helper.FromError(c, err)
		}
		if id != nil {
			tx = tx.Where(f.column+" = ?", *id)
		}
	}
	sectionID, err := helper.QueryUUID(c, "section_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if sectionID != nil {
		inSection := h.DB.Model(&studentModel.StudentModel{}).
			Select("student_id").
			Where("student_school_id = ? AND student_section_id = ?", schoolID, *sectionID)
		tx = tx.Where("student_fee_student_id IN (?)", inSection)
	}
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		switch model.DueStatus(s) {
		case model.DueStatusPaid:
			tx = tx.Where(service.PendingSQL + " <= 0")
		case model.DueStatusPending:
			tx = tx.Where(service.PendingSQL+" > 0 AND student_fee_paid_amount = 0")
		case model.DueStatusPartial:
			tx = tx.Where(service.PendingSQL+" > 0 AND student_fee_paid_amount > 0")
		default:
			return helper.JsonError(c, fiber.StatusBadRequest, "status must be one of paid, pending, partial")
		}
	}
	overdue, err := helper.QueryBool(c, "overdue")
	if err != nil {
		return helper.FromError(c, err)
	}
	if overdue != nil {
		if *overdue {
			tx = tx.Where(service.PendingSQL+" > 0 AND student_fee_due_date < ?", today)
		} else {
			tx = tx.Where("NOT ("+service.PendingSQL+" > 0 AND student_fee_due_date < ?)", today)
		}
	}
	// due dates window, both ends optional
	loc := dbtime.GetSchoolLocation(c)
	for _, f := range []struct{ param, op string }{{"from", ">="}, {"to", "<="}} {
		d, err := helper.QueryDate(c, f.param, loc)
		if err != nil {
			return helper.FromError(c, err)
		}
		if d != nil {
			tx = tx.Where("student_fee_due_date "+f.op+" ?", dbtime.DateOf(*d))
		}
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count dues")
	}
	order := p.OrderExpr(map[string]string{
		"due_date":   "student_fee_due_date",
		"total":      "student_fee_total_amount",
		"paid":       "student_fee_paid_amount",
		"created_at": "student_fee_created_at",
	}, "due_date")

	var rows []model.StudentFeeModel
	if err := tx.Order(order).Order("student_fee_id").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch dues")
	}

	out, err := h.dueResponses(c, rows, today)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch due details")
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

// GET /fees/dues/:id with payment history
func (h *FeeController) GetDue(c *fiber.Ctx) error {
	m, err := h.loadDue(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := h.dueResponses(c, []model.StudentFeeModel{*m}, dbtime.TodayInSchool(c))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch due details")
	}
	r := out[0]

	var pays []model.FeePaymentModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("fee_payment_student_fee_id = ?", m.StudentFeeID).
		Order("fee_payment_paid_at ASC").
		Find(&pays).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch payments")
	}
	r.Payments = make([]dto.PaymentResponse, 0, len(pays))
	for i := range pays {
		r.Payments = append(r.Payments, dto.FromPayment(&pays[i]))
	}
	return helper.JsonOK(c, "ok", r)
}

// PATCH /fees/dues/:id sets the discount.
func (h *FeeController) UpdateDue(c *fiber.Ctx) error {
	m, err := h.loadDue(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateDueRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}
	if *req.StudentFeeDiscount > m.StudentFeeTotalAmount-m.StudentFeePaidAmount {
		return helper.JsonValidationError(c, map[string][]string{
			"student_fee_discount": {"must not exceed the unpaid part of the total"},
		})
	}
	m.StudentFeeDiscount = *req.StudentFeeDiscount
	if err := h.DB.WithContext(c.UserContext()).
		Model(m).
		Update("student_fee_discount", m.StudentFeeDiscount).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update due")
	}
	out, err := h.dueResponses(c, []model.StudentFeeModel{*m}, dbtime.TodayInSchool(c))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch due details")
	}
	return helper.JsonUpdated(c, "due updated", out[0])
}

// POST /fees/dues/:id/payments
func (h *FeeController) RecordPayment(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	dueID, err := helper.ParamUUID(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}

	in := req.Input(schoolID, dueID, time.Now(), dbtime.GetSchoolLocation(c))
	pay, due, err := service.RecordPayment(c.UserContext(), h.DB, in)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "due not found")
	case errors.Is(err, service.ErrAlreadySettled):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrExceedsPending), errors.Is(err, service.ErrInvalidAmount):
		return helper.JsonValidationError(c, map[string][]string{"fee_payment_amount": {err.Error()}})
	case err != nil:
		logx.L().Error("record payment failed", zap.String("student_fee_id", dueID.String()), zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to record payment")
	}

	return helper.JsonCreated(c, "payment recorded", fiber.Map{
		"payment": dto.FromPayment(pay),
		"due":     dto.FromDue(due, dbtime.TodayInSchool(c), nil),
	})
}

// GET /fees/payments
func (h *FeeController) ListPayments(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "paid_at", "desc", helper.ExportOpts)

	tx := h.DB.WithContext(c.UserContext()).
		Model(&model.FeePaymentModel{}).
		Where("fee_payment_school_id = ?", schoolID)

	for _, f := range []struct{ param, column string }{
		{"student_id", "fee_payment_student_id"},
		{"due_id", "fee_payment_student_fee_id"},
	} {
		id, err := helper.QueryUUID(c, f.param)
		if err != nil {
			return helper.FromError(c, err)
		}
		if id != nil {
			tx = tx.Where(f.column+" = ?", *id)
		}
	}
	if m := strings.TrimSpace(c.Query("method")); m != "" {
		tx = tx.Where("fee_payment_method = ?", m)
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
	if from != nil {
		tx = tx.Where("fee_payment_paid_at >= ?", from.UTC())
	}
	if to != nil {
		tx = tx.Where("fee_payment_paid_at < ?", to.AddDate(0, 0, 1).UTC())
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count payments")
	}
	order := p.OrderExpr(map[string]string{
		"paid_at": "fee_payment_paid_at",
		"amount":  "fee_payment_amount",
	}, "paid_at")

	var rows []model.FeePaymentModel
	if err := tx.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch payments")
	}
	out := make([]dto.PaymentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromPayment(&rows[i]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

// POST /fees/dues/:id/checkout opens a Snap session for the pending amount.
func (h *FeeController) Checkout(c *fiber.Ctx) error {
	if h.Gateway == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "online checkout is not configured")
	}
	m, err := h.loadDue(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	pending := m.Pending()
	if pending == 0 {
		return helper.JsonError(c, fiber.StatusConflict, service.ErrAlreadySettled.Error())
	}

	var st studentModel.StudentModel
	if err := h.DB.WithContext(c.UserContext()).Unscoped().
		First(&st, "student_id = ?", m.StudentFeeStudentID).Error; err != nil {
		return helper.FromError(c, err)
	}
	var fs model.FeeStructureModel
	if err := h.DB.WithContext(c.UserContext()).Unscoped().
		First(&fs, "fee_structure_id = ?", m.StudentFeeStructureID).Error; err != nil {
		return helper.FromError(c, err)
	}

	orderID := service.OrderID(m.StudentFeeID, time.Now())
	req := service.CheckoutRequest{
		OrderID:      orderID,
		Amount:       pending,
		ItemName:     fs.FeeStructureName + " " + m.StudentFeePeriodLabel,
		CustomerName: st.StudentFullName,
	}
	if st.StudentGuardianPhone != nil {
		req.Phone = *st.StudentGuardianPhone
	}
	res, err := h.Gateway.CreateCheckout(c.UserContext(), req)
	if err != nil {
		logx.L().Error("checkout failed", zap.String("order_id", orderID), zap.Error(err))
		return helper.JsonError(c, fiber.StatusBadGateway, "payment gateway error")
	}
	return helper.JsonCreated(c, "checkout created", fiber.Map{
		"order_id":     orderID,
		"amount":       pending,
		"token":        res.Token,
		"redirect_url": res.RedirectURL,
	})
}

// dueResponses batch-loads student names, structure names and late fees.
func (h *FeeController) dueResponses(c *fiber.Ctx, rows []model.StudentFeeModel, today time.Time) ([]dto.DueResponse, error) {
	out := make([]dto.DueResponse, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	studentIDs := make([]uuid.UUID, 0, len(rows))
	structureIDs := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		studentIDs = append(studentIDs, rows[i].StudentFeeStudentID)
		structureIDs = append(structureIDs, rows[i].StudentFeeStructureID)
	}

	var studs []studentModel.StudentModel
	if err := h.DB.WithContext(c.UserContext()).Unscoped().
		Select("student_id", "student_full_name").
		Where("student_id IN ?", studentIDs).
		Find(&studs).Error; err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(studs))
	for _, s := range studs {
		names[s.StudentID] = s.StudentFullName
	}

	var structures []model.FeeStructureModel
	if err := h.DB.WithContext(c.UserContext()).Unscoped().
		Where("fee_structure_id IN ?", structureIDs).
		Find(&structures).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.FeeStructureModel, len(structures))
	for i := range structures {
		byID[structures[i].FeeStructureID] = &structures[i]
	}

	for i := range rows {
		var lateFee *int64
		fs := byID[rows[i].StudentFeeStructureID]
		if fs != nil {
			lateFee = fs.FeeStructureLateFee
		}
		r := dto.FromDue(&rows[i], today, lateFee)
		r.StudentFeeStudentName = names[rows[i].StudentFeeStudentID]
		if fs != nil {
			r.StudentFeeName = fs.FeeStructureName
		}
		out = append(out, r)
	}
	return out, nil
}

func (h *FeeController) loadDue(c *fiber.Ctx) (*model.StudentFeeModel, error) {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.StudentFeeModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("student_fee_school_id = ? AND student_fee_id = ?", schoolID, id).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
