package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DueStatus string

const (
	DueStatusPaid    DueStatus = "paid"
	DueStatusPending DueStatus = "pending"
	DueStatusPartial DueStatus = "partial"
)

func (s DueStatus) Valid() bool {
	return s == DueStatusPaid || s == DueStatusPending || s == DueStatusPartial
}

// StudentFeeModel is one due; (student, structure, due_date) is unique,
// soft-deleted rows included, so a removed due is never regenerated.
type StudentFeeModel struct {
	StudentFeeID          uuid.UUID `gorm:"column:student_fee_id;type:uuid;primaryKey" json:"student_fee_id"`
	StudentFeeSchoolID    uuid.UUID `gorm:"column:student_fee_school_id;type:uuid;not null;index:idx_student_fees_school_due,priority:1" json:"student_fee_school_id"`
	StudentFeeStudentID   uuid.UUID `gorm:"column:student_fee_student_id;type:uuid;not null;uniqueIndex:uq_student_fees_period,priority:1" json:"student_fee_student_id"`
	StudentFeeStructureID uuid.UUID `gorm:"column:student_fee_structure_id;type:uuid;not null;uniqueIndex:uq_student_fees_period,priority:2" json:"student_fee_structure_id"`

	StudentFeePeriodLabel string    `gorm:"column:student_fee_period_label;type:varchar(40);not null" json:"student_fee_period_label"`
	StudentFeeDueDate     time.Time `gorm:"column:student_fee_due_date;type:date;not null;uniqueIndex:uq_student_fees_period,priority:3;index:idx_student_fees_school_due,priority:2" json:"student_fee_due_date"`
	StudentFeeTotalAmount int64     `gorm:"column:student_fee_total_amount;not null" json:"student_fee_total_amount"`
	StudentFeeDiscount    int64     `gorm:"column:student_fee_discount;not null" json:"student_fee_discount"`
	StudentFeePaidAmount  int64     `gorm:"column:student_fee_paid_amount;not null" json:"student_fee_paid_amount"`

	StudentFeeCreatedAt time.Time      `gorm:"column:student_fee_created_at;not null;autoCreateTime" json:"student_fee_created_at"`
	StudentFeeUpdatedAt time.Time      `gorm:"column:student_fee_updated_at;not null;autoUpdateTime" json:"student_fee_updated_at"`
	StudentFeeDeletedAt gorm.DeletedAt `gorm:"column:student_fee_deleted_at;index" json:"-"`
}

func (StudentFeeModel) TableName() string { return "student_fees" }

func (m *StudentFeeModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentFeeID == uuid.Nil {
		m.StudentFeeID = uuid.New()
	}
	return nil
}

// Pending is total - discount - paid, floored at zero.
func (m *StudentFeeModel) Pending() int64 {
	if p := m.StudentFeeTotalAmount - m.StudentFeeDiscount - m.StudentFeePaidAmount; p > 0 {
		return p
	}
	return 0
}

func (m *StudentFeeModel) Status() DueStatus {
	return StatusOf(m.Pending(), m.StudentFeePaidAmount)
}

// StatusOf: paid iff nothing pending, pending iff nothing paid yet, else partial.
func StatusOf(pending, paid int64) DueStatus {
	switch {
	case pending <= 0:
		return DueStatusPaid
	case paid <= 0:
		return DueStatusPending
	default:
		return DueStatusPartial
	}
}

// Overdue is pending > 0 and the due date already passed.
func (m *StudentFeeModel) Overdue(today time.Time) bool {
	return m.Pending() > 0 && m.StudentFeeDueDate.Before(today)
}
