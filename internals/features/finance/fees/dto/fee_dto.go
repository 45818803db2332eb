package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/finance/fees/model"
	"schoolku_backend/internals/features/finance/fees/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
)

/* ===================== structures ===================== */

type CreateStructureRequest struct {
	FeeStructureName      string     `json:"fee_structure_name" validate:"required,min=2,max=120"`
	FeeStructureAmount    int64      `json:"fee_structure_amount" validate:"required,gt=0"`
	FeeStructureFrequency string     `json:"fee_structure_frequency" validate:"required,oneof=one_time monthly termly yearly"`
	FeeStructureDueDay    int        `json:"fee_structure_due_day" validate:"required,min=1,max=31"`
	FeeStructureSectionID *uuid.UUID `json:"fee_structure_section_id"`
	FeeStructureStartsOn  string     `json:"fee_structure_starts_on" validate:"required,datetime=2006-01-02"`
	FeeStructureEndsOn    *string    `json:"fee_structure_ends_on" validate:"omitempty,datetime=2006-01-02"`
	FeeStructureLateFee   *int64     `json:"fee_structure_late_fee" validate:"omitempty,gte=0"`
	FeeStructureIsActive  *bool      `json:"fee_structure_is_active"`
}

// ToModel fills ends_on with starts_on + 1 year - 1 day when it is missing.
func (r CreateStructureRequest) ToModel(schoolID uuid.UUID) *model.FeeStructureModel {
	starts, _ := dbtime.ParseDate(r.FeeStructureStartsOn)
	m := &model.FeeStructureModel{
		FeeStructureSchoolID:  schoolID,
		FeeStructureSectionID: r.FeeStructureSectionID,
		FeeStructureName:      strings.TrimSpace(r.FeeStructureName),
		FeeStructureAmount:    r.FeeStructureAmount,
		FeeStructureFrequency: model.Frequency(r.FeeStructureFrequency),
		FeeStructureDueDay:    r.FeeStructureDueDay,
		FeeStructureStartsOn:  starts,
		FeeStructureEndsOn:    service.DefaultEndsOn(starts),
		FeeStructureLateFee:   r.FeeStructureLateFee,
		FeeStructureIsActive:  true,
	}
	if r.FeeStructureEndsOn != nil {
		if d, err := dbtime.ParseDate(*r.FeeStructureEndsOn); err == nil {
			m.FeeStructureEndsOn = d
		}
	}
	if r.FeeStructureIsActive != nil {
		m.FeeStructureIsActive = *r.FeeStructureIsActive
	}
	return m
}

type UpdateStructureRequest struct {
	FeeStructureName     *string `json:"fee_structure_name" validate:"omitempty,min=2,max=120"`
	FeeStructureAmount   *int64  `json:"fee_structure_amount" validate:"omitempty,gt=0"`
	FeeStructureDueDay   *int    `json:"fee_structure_due_day" validate:"omitempty,min=1,max=31"`
	FeeStructureEndsOn   *string `json:"fee_structure_ends_on" validate:"omitempty,datetime=2006-01-02"`
	FeeStructureLateFee  *int64  `json:"fee_structure_late_fee" validate:"omitempty,gte=0"`
	FeeStructureIsActive *bool   `json:"fee_structure_is_active"`
}

// ApplyToModel changes the schedule for dues generated from now on; existing dues keep their amounts.
func (r *UpdateStructureRequest) ApplyToModel(m *model.FeeStructureModel) {
	if r.FeeStructureName != nil {
		m.FeeStructureName = strings.TrimSpace(*r.FeeStructureName)
	}
	if r.FeeStructureAmount != nil {
		m.FeeStructureAmount = *r.FeeStructureAmount
	}
	if r.FeeStructureDueDay != nil {
		m.FeeStructureDueDay = *r.FeeStructureDueDay
	}
	if r.FeeStructureEndsOn != nil {
		if d, err := dbtime.ParseDate(*r.FeeStructureEndsOn); err == nil {
			m.FeeStructureEndsOn = d
		}
	}
	if r.FeeStructureLateFee != nil {
		m.FeeStructureLateFee = r.FeeStructureLateFee
	}
	if r.FeeStructureIsActive != nil {
		m.FeeStructureIsActive = *r.FeeStructureIsActive
	}
}

type StructureResponse struct {
	FeeStructureID        uuid.UUID  `json:"fee_structure_id"`
	FeeStructureSectionID *uuid.UUID `json:"fee_structure_section_id"`
	FeeStructureName      string     `json:"fee_structure_name"`
	FeeStructureAmount    int64      `json:"fee_structure_amount"`
	FeeStructureFrequency string     `json:"fee_structure_frequency"`
	FeeStructureDueDay    int        `json:"fee_structure_due_day"`
	FeeStructureStartsOn  string     `json:"fee_structure_starts_on"`
	FeeStructureEndsOn    string     `json:"fee_structure_ends_on"`
	FeeStructureLateFee   *int64     `json:"fee_structure_late_fee"`
	FeeStructureIsActive  bool       `json:"fee_structure_is_active"`
	FeeStructureDueCount  int        `json:"fee_structure_due_count"`
	FeeStructureCreatedAt time.Time  `json:"fee_structure_created_at"`
}

func FromStructure(m *model.FeeStructureModel) StructureResponse {
	return StructureResponse{
		FeeStructureID:        m.FeeStructureID,
		FeeStructureSectionID: m.FeeStructureSectionID,
		FeeStructureName:      m.FeeStructureName,
		FeeStructureAmount:    m.FeeStructureAmount,
		FeeStructureFrequency: string(m.FeeStructureFrequency),
		FeeStructureDueDay:    m.FeeStructureDueDay,
		FeeStructureStartsOn:  m.FeeStructureStartsOn.Format(dbtime.DateLayout),
		FeeStructureEndsOn:    m.FeeStructureEndsOn.Format(dbtime.DateLayout),
		FeeStructureLateFee:   m.FeeStructureLateFee,
		FeeStructureIsActive:  m.FeeStructureIsActive,
		FeeStructureDueCount: len(service.DueDates(
			m.FeeStructureFrequency, m.FeeStructureDueDay, m.FeeStructureStartsOn, m.FeeStructureEndsOn)),
		FeeStructureCreatedAt: m.FeeStructureCreatedAt,
	}
}

/* ===================== dues ===================== */

type UpdateDueRequest struct {
	StudentFeeDiscount *int64 `json:"student_fee_discount" validate:"required,gte=0"`
}

type DueResponse struct {
	StudentFeeID          uuid.UUID         `json:"student_fee_id"`
	StudentFeeStudentID   uuid.UUID         `json:"student_fee_student_id"`
	StudentFeeStudentName string            `json:"student_fee_student_name,omitempty"`
	StudentFeeStructureID uuid.UUID         `json:"student_fee_structure_id"`
	StudentFeeName        string            `json:"student_fee_name,omitempty"`
	StudentFeePeriodLabel string            `json:"student_fee_period_label"`
	StudentFeeDueDate     string            `json:"student_fee_due_date"`
	StudentFeeTotalAmount int64             `json:"student_fee_total_amount"`
	StudentFeeDiscount    int64             `json:"student_fee_discount"`
	StudentFeePaidAmount  int64             `json:"student_fee_paid_amount"`
	StudentFeePending     int64             `json:"student_fee_pending_amount"`
	StudentFeeStatus      string            `json:"student_fee_status"`
	StudentFeeIsOverdue   bool              `json:"student_fee_is_overdue"`
	StudentFeeLateFee     int64             `json:"student_fee_late_fee"`
	Payments              []PaymentResponse `json:"payments,omitempty"`
}

// FromDue: lateFee only shows while the due is overdue.
func FromDue(m *model.StudentFeeModel, today time.Time, lateFee *int64) DueResponse {
	r := DueResponse{
		StudentFeeID:          m.StudentFeeID,
		StudentFeeStudentID:   m.StudentFeeStudentID,
		StudentFeeStructureID: m.StudentFeeStructureID,
		StudentFeePeriodLabel: m.StudentFeePeriodLabel,
		StudentFeeDueDate:     m.StudentFeeDueDate.Format(dbtime.DateLayout),
		StudentFeeTotalAmount: m.StudentFeeTotalAmount,
		StudentFeeDiscount:    m.StudentFeeDiscount,
		StudentFeePaidAmount:  m.StudentFeePaidAmount,
		StudentFeePending:     m.Pending(),
		StudentFeeStatus:      string(m.Status()),
		StudentFeeIsOverdue:   m.Overdue(today),
	}
	if r.StudentFeeIsOverdue && lateFee != nil {
		r.StudentFeeLateFee = *lateFee
	}
	return r
}

/* ===================== payments ===================== */

type RecordPaymentRequest struct {
	FeePaymentAmount    int64   `json:"fee_payment_amount" validate:"required,gt=0"`
	FeePaymentMethod    string  `json:"fee_payment_method" validate:"required,oneof=cash bank_transfer online"`
	FeePaymentPaidAt    *string `json:"fee_payment_paid_at" validate:"omitempty,datetime=2006-01-02"`
	FeePaymentReference *string `json:"fee_payment_reference" validate:"omitempty,max=120"`
	FeePaymentNote      *string `json:"fee_payment_note" validate:"omitempty,max=500"`
}

// Input turns the request into a service call. A paid_at date is taken as noon
// in the school timezone so it lands on the same calendar day everywhere.
func (r RecordPaymentRequest) Input(schoolID, dueID uuid.UUID, now time.Time, loc *time.Location) service.PaymentInput {
	in := service.PaymentInput{
		SchoolID:     schoolID,
		StudentFeeID: dueID,
		Amount:       r.FeePaymentAmount,
		Method:       model.PaymentMethod(r.FeePaymentMethod),
		PaidAt:       now,
		Location:     loc,
		Reference:    helper.TrimPtr(r.FeePaymentReference),
		Note:         helper.TrimPtr(r.FeePaymentNote),
	}
	if r.FeePaymentPaidAt != nil {
		if d, err := dbtime.ParseDate(*r.FeePaymentPaidAt); err == nil {
			in.PaidAt = time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc)
		}
	}
	return in
}

type PaymentResponse struct {
	FeePaymentID           uuid.UUID `json:"fee_payment_id"`
	FeePaymentStudentFeeID uuid.UUID `json:"fee_payment_student_fee_id"`
	FeePaymentStudentID    uuid.UUID `json:"fee_payment_student_id"`
	FeePaymentAmount       int64     `json:"fee_payment_amount"`
	FeePaymentMethod       string    `json:"fee_payment_method"`
	FeePaymentPaidAt       time.Time `json:"fee_payment_paid_at"`
	FeePaymentReference    *string   `json:"fee_payment_reference,omitempty"`
	FeePaymentGatewayRef   *string   `json:"fee_payment_gateway_ref,omitempty"`
	FeePaymentNote         *string   `json:"fee_payment_note,omitempty"`
}

func FromPayment(m *model.FeePaymentModel) PaymentResponse {
	return PaymentResponse{
		FeePaymentID:           m.FeePaymentID,
		FeePaymentStudentFeeID: m.FeePaymentStudentFeeID,
		FeePaymentStudentID:    m.FeePaymentStudentID,
		FeePaymentAmount:       m.FeePaymentAmount,
		FeePaymentMethod:       string(m.FeePaymentMethod),
		FeePaymentPaidAt:       m.FeePaymentPaidAt,
		FeePaymentReference:    m.FeePaymentReference,
		FeePaymentGatewayRef:   m.FeePaymentGatewayRef,
		FeePaymentNote:         m.FeePaymentNote,
	}
}

/* ===================== gateway ===================== */

// MidtransNotification is the webhook body; unknown fields are ignored.
type MidtransNotification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
}
