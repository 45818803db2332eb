package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"schoolku_backend/internals/features/finance/fees/dto"
	"schoolku_backend/internals/features/finance/fees/model"
	"schoolku_backend/internals/features/finance/fees/service"
	schoolModel "schoolku_backend/internals/features/schools/schools/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
	"schoolku_backend/internals/helpers/logx"
)

const providerMidtrans = "midtrans"

// POST /api/public/payments/midtrans/webhook
//
// Every call is logged as a gateway event. Anything that is not a valid,
// settled fee checkout is acknowledged with 200;
// only a bad signature gets 401.
func (h *FeeController) MidtransWebhook(c *fiber.Ctx) error {
	var notif dto.MidtransNotification
	if err := c.BodyParser(&notif); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	ev := &model.FeeGatewayEventModel{
		GatewayEventProvider: providerMidtrans,
		GatewayEventOrderID:  notif.OrderID,
		GatewayEventType:     notif.TransactionStatus,
		GatewayEventPayload:  datatypes.JSON(append([]byte(nil), c.Body()...)),
	}
	if notif.TransactionID != "" {
		ref := notif.TransactionID
		ev.GatewayEventExternalRef = &ref
	}
	log := logx.L().Named("fees.webhook").With(
		zap.String("order_id", notif.OrderID),
		zap.String("transaction_status", notif.TransactionStatus),
	)

	if !service.VerifySignature(notif.OrderID, notif.StatusCode, notif.GrossAmount, h.ServerKey, notif.SignatureKey) {
		h.saveEvent(ev, model.GatewayEventRejected, "invalid signature")
		log.Warn("webhook signature rejected")
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid signature")
	}

	dueID, err := service.ParseOrderID(notif.OrderID)
	if err != nil {
		h.saveEvent(ev, model.GatewayEventIgnored, err.Error())
		return h.ack(c, "ignored", "not a fee order")
	}
	ev.GatewayEventStudentFeeID = &dueID

	var due model.StudentFeeModel
	if err := h.DB.WithContext(c.UserContext()).First(&due, "student_fee_id = ?", dueID).Error; err != nil {
		h.saveEvent(ev, model.GatewayEventIgnored, "due not found")
		return h.ack(c, "ignored", "due not found")
	}
	ev.GatewayEventSchoolID = &due.StudentFeeSchoolID

	if !service.Settled(notif.TransactionStatus, notif.FraudStatus) {
		h.saveEvent(ev, model.GatewayEventIgnored, "")
		return h.ack(c, "ignored", "status "+notif.TransactionStatus+" does not settle")
	}

	amount, err := service.GrossToMinor(notif.GrossAmount)
	if err != nil {
		h.saveEvent(ev, model.GatewayEventFailed, "bad gross_amount")
		return h.ack(c, "ignored", "bad gross_amount")
	}

	ref := notif.OrderID
	if notif.TransactionID != "" {
		ref = notif.TransactionID
	}
	orderID := notif.OrderID
	pay, _, err := service.RecordPayment(c.UserContext(), h.DB, service.PaymentInput{
		SchoolID:     due.StudentFeeSchoolID,
		StudentFeeID: due.StudentFeeID,
		Amount:       amount,
		Method:       model.MethodOnline,
		Location:     h.schoolLocation(due.StudentFeeSchoolID),
		Reference:    &orderID,
		GatewayRef:   &ref,
	})
	switch {
	case errors.Is(err, service.ErrDuplicateGatewayRef):
		h.saveEvent(ev, model.GatewayEventIgnored, "duplicate notification")
		return h.ack(c, "duplicate", "payment already recorded")
	case errors.Is(err, service.ErrAlreadySettled), errors.Is(err, service.ErrExceedsPending):
		h.saveEvent(ev, model.GatewayEventFailed, err.Error())
		log.Warn("settled payment not applied", zap.Error(err))
		return h.ack(c, "ignored", err.Error())
	case err != nil:
		h.saveEvent(ev, model.GatewayEventFailed, err.Error())
		log.Error("webhook payment failed", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to record payment")
	}

	h.saveEvent(ev, model.GatewayEventProcessed, "")
	log.Info("online fee payment recorded", zap.Int64("amount", amount))
	return helper.JsonOK(c, "processed", fiber.Map{
		"status":         "processed",
		"fee_payment_id": pay.FeePaymentID,
	})
}

func (h *FeeController) ack(c *fiber.Ctx, status, reason string) error {
	return helper.JsonOK(c, status, fiber.Map{"status": status, "reason": reason})
}

func (h *FeeController) saveEvent(ev *model.FeeGatewayEventModel, status model.GatewayEventStatus, msg string) {
	ev.GatewayEventStatus = status
	if msg != "" {
		ev.GatewayEventError = &msg
	}
	if err := h.DB.Create(ev).Error; err != nil {
		logx.L().Error("failed to store gateway event", zap.String("order_id", ev.GatewayEventOrderID), zap.Error(err))
	}
}

func (h *FeeController) schoolLocation(schoolID uuid.UUID) *time.Location {
	var s schoolModel.SchoolModel
	if err := h.DB.Select("school_id", "school_timezone").First(&s, "school_id = ?", schoolID).Error; err != nil {
		return dbtime.LoadLocation("")
	}
	return dbtime.LoadLocation(s.SchoolTimezone)
}
