package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodOnline       PaymentMethod = "online"
)

type FeePaymentModel struct {
	FeePaymentID           uuid.UUID `gorm:"column:fee_payment_id;type:uuid;primaryKey" json:"fee_payment_id"`
	FeePaymentSchoolID     uuid.UUID `gorm:"column:fee_payment_school_id;type:uuid;not null;index:idx_fee_payments_school_paid,priority:1" json:"fee_payment_school_id"`
	FeePaymentStudentFeeID uuid.UUID `gorm:"column:fee_payment_student_fee_id;type:uuid;not null;index" json:"fee_payment_student_fee_id"`
	FeePaymentStudentID    uuid.UUID `gorm:"column:fee_payment_student_id;type:uuid;not null;index" json:"fee_payment_student_id"`

	FeePaymentAmount     int64         `gorm:"column:fee_payment_amount;not null" json:"fee_payment_amount"`
	FeePaymentMethod     PaymentMethod `gorm:"column:fee_payment_method;type:varchar(20);not null" json:"fee_payment_method"`
	FeePaymentPaidAt     time.Time     `gorm:"column:fee_payment_paid_at;not null;index:idx_fee_payments_school_paid,priority:2" json:"fee_payment_paid_at"`
	FeePaymentReference  *string       `gorm:"column:fee_payment_reference;type:varchar(120)" json:"fee_payment_reference,omitempty"`
	FeePaymentGatewayRef *string       `gorm:"column:fee_payment_gateway_ref;type:varchar(120);uniqueIndex:uq_fee_payments_gateway_ref" json:"fee_payment_gateway_ref,omitempty"`
	FeePaymentNote       *string       `gorm:"column:fee_payment_note;type:text" json:"fee_payment_note,omitempty"`

	FeePaymentCreatedAt time.Time `gorm:"column:fee_payment_created_at;not null;autoCreateTime" json:"fee_payment_created_at"`
}

func (FeePaymentModel) TableName() string { return "fee_payments" }

func (m *FeePaymentModel) BeforeCreate(tx *gorm.DB) error {
	if m.FeePaymentID == uuid.Nil {
		m.FeePaymentID = uuid.New()
	}
	return nil
}

type GatewayEventStatus string

const (
	GatewayEventProcessed GatewayEventStatus = "processed"
	GatewayEventIgnored   GatewayEventStatus = "ignored"
	GatewayEventRejected  GatewayEventStatus = "rejected"
	GatewayEventFailed    GatewayEventStatus = "failed"
)

// FeeGatewayEventModel logs every webhook call with its raw payload for replay.
type FeeGatewayEventModel struct {
	GatewayEventID           uuid.UUID          `gorm:"column:gateway_event_id;type:uuid;primaryKey" json:"gateway_event_id"`
	GatewayEventSchoolID     *uuid.UUID         `gorm:"column:gateway_event_school_id;type:uuid;index" json:"gateway_event_school_id,omitempty"`
	GatewayEventStudentFeeID *uuid.UUID         `gorm:"column:gateway_event_student_fee_id;type:uuid" json:"gateway_event_student_fee_id,omitempty"`
	GatewayEventProvider     string             `gorm:"column:gateway_event_provider;type:varchar(20);not null" json:"gateway_event_provider"`
	GatewayEventOrderID      string             `gorm:"column:gateway_event_order_id;type:varchar(120);not null;index" json:"gateway_event_order_id"`
	GatewayEventType         string             `gorm:"column:gateway_event_type;type:varchar(40)" json:"gateway_event_type"`
	GatewayEventExternalRef  *string            `gorm:"column:gateway_event_external_ref;type:varchar(120)" json:"gateway_event_external_ref,omitempty"`
	GatewayEventPayload      datatypes.JSON     `gorm:"column:gateway_event_payload" json:"gateway_event_payload"`
	GatewayEventStatus       GatewayEventStatus `gorm:"column:gateway_event_status;type:varchar(20);not null" json:"gateway_event_status"`
	GatewayEventError        *string            `gorm:"column:gateway_event_error;type:text" json:"gateway_event_error,omitempty"`
	GatewayEventReceivedAt   time.Time          `gorm:"column:gateway_event_received_at;not null;autoCreateTime" json:"gateway_event_received_at"`
}

func (FeeGatewayEventModel) TableName() string { return "fee_gateway_events" }

func (m *FeeGatewayEventModel) BeforeCreate(tx *gorm.DB) error {
	if m.GatewayEventID == uuid.Nil {
		m.GatewayEventID = uuid.New()
	}
	return nil
}
