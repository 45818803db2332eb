package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	studentModel "schoolku_backend/internals/features/academics/students/model"
	ledgerModel "schoolku_backend/internals/features/finance/accounting/model"
	"schoolku_backend/internals/features/finance/fees/model"
	"schoolku_backend/internals/helpers/dbtime"
)

var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrExceedsPending      = errors.New("amount exceeds the pending balance")
	ErrAlreadySettled      = errors.New("due is already fully paid")
	ErrDuplicateGatewayRef = errors.New("payment already recorded for this gateway reference")
	ErrStructureInactive   = errors.New("fee structure is not active")
)

// PendingSQL is the pending balance as a column expression.
const PendingSQL = "(student_fee_total_amount - student_fee_discount - student_fee_paid_amount)"

type AssignResult struct {
	Students int   `json:"students"`
	Periods  int   `json:"periods"`
	Created  int64 `json:"created"`
	Skipped  int64 `json:"skipped"`
}

// Assign creates dues of st for every active student in its scope. keep, when
// set, filters the scheduled dates. Existing (student, structure, due_date)
// rows are left untouched so repeated runs only fill gaps.
func Assign(ctx context.Context, db *gorm.DB, st *model.FeeStructureModel, keep func(Due) bool) (AssignResult, error) {
	var res AssignResult
	if !st.FeeStructureIsActive {
		return res, ErrStructureInactive
	}

	var dues []Due
	for _, d := range DueDates(st.FeeStructureFrequency, st.FeeStructureDueDay, st.FeeStructureStartsOn, st.FeeStructureEndsOn) {
		if keep == nil || keep(d) {
			dues = append(dues, d)
		}
	}

	q := db.WithContext(ctx).
		Model(&studentModel.StudentModel{}).
		Where("student_school_id = ? AND student_is_active = ?", st.FeeStructureSchoolID, true)
	if st.FeeStructureSectionID != nil {
		q = q.Where("student_section_id = ?", *st.FeeStructureSectionID)
	}
	var studentIDs []uuid.UUID
	if err := q.Pluck("student_id", &studentIDs).Error; err != nil {
		return res, err
	}
	res.Students, res.Periods = len(studentIDs), len(dues)
	if len(studentIDs) == 0 || len(dues) == 0 {
		return res, nil
	}

	rows := make([]model.StudentFeeModel, 0, len(studentIDs)*len(dues))
	for _, sid := range studentIDs {
		for _, d := range dues {
			rows = append(rows, model.StudentFeeModel{
				StudentFeeSchoolID:    st.FeeStructureSchoolID,
				StudentFeeStudentID:   sid,
				StudentFeeStructureID: st.FeeStructureID,
				StudentFeePeriodLabel: d.Label,
				StudentFeeDueDate:     d.Date,
				StudentFeeTotalAmount: st.FeeStructureAmount,
			})
		}
	}
	tx := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "student_fee_student_id"},
			{Name: "student_fee_structure_id"},
			{Name: "student_fee_due_date"},
		},
		DoNothing: true,
	}).CreateInBatches(&rows, 200)
	if tx.Error != nil {
		return res, tx.Error
	}
	res.Created = tx.RowsAffected
	res.Skipped = int64(len(rows)) - res.Created
	return res, nil
}

type PaymentInput struct {
	SchoolID     uuid.UUID
	StudentFeeID uuid.UUID
	Amount       int64
	Method       model.PaymentMethod
	PaidAt       time.Time
	Location     *time.Location
	Reference    *string
	GatewayRef   *string
	Note         *string
}

// RecordPayment locks the due, applies the payment and posts the matching
// income entry in one transaction.
func RecordPayment(ctx context.Context, db *gorm.DB, in PaymentInput) (*model.FeePaymentModel, *model.StudentFeeModel, error) {
	if in.Amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	if in.PaidAt.IsZero() {
		in.PaidAt = time.Now()
	}
	if in.Location == nil {
		in.Location = time.UTC
	}

	var (
		due model.StudentFeeModel
		pay model.FeePaymentModel
	)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_fee_school_id = ? AND student_fee_id = ?", in.SchoolID, in.StudentFeeID).
			First(&due).Error; err != nil {
			return err
		}
		if in.GatewayRef != nil {
			var n int64
			if err := tx.Model(&model.FeePaymentModel{}).
				Where("fee_payment_gateway_ref = ?", *in.GatewayRef).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return ErrDuplicateGatewayRef
			}
		}

		pending := due.Pending()
		switch {
		case pending == 0:
			return ErrAlreadySettled
		case in.Amount > pending:
			return ErrExceedsPending
		}

		pay = model.FeePaymentModel{
			FeePaymentSchoolID:     in.SchoolID,
			FeePaymentStudentFeeID: due.StudentFeeID,
			FeePaymentStudentID:    due.StudentFeeStudentID,
			FeePaymentAmount:       in.Amount,
			FeePaymentMethod:       in.Method,
			FeePaymentPaidAt:       in.PaidAt.UTC(),
			FeePaymentReference:    in.Reference,
			FeePaymentGatewayRef:   in.GatewayRef,
			FeePaymentNote:         in.Note,
		}
		if err := tx.Create(&pay).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.StudentFeeModel{}).
			Where("student_fee_id = ?", due.StudentFeeID).
			UpdateColumns(map[string]any{
				"student_fee_paid_amount": gorm.Expr("student_fee_paid_amount + ?", in.Amount),
				"student_fee_updated_at":  time.Now(),
			}).Error; err != nil {
			return err
		}
		due.StudentFeePaidAmount += in.Amount

		desc := fmt.Sprintf("Fee payment (%s) %s", in.Method, due.StudentFeePeriodLabel)
		ref := pay.FeePaymentID.String()
		entry := ledgerModel.LedgerEntryModel{
			LedgerEntrySchoolID:    in.SchoolID,
			LedgerEntryKind:        ledgerModel.KindIncome,
			LedgerEntryCategory:    ledgerModel.CategoryFees,
			LedgerEntryAmount:      in.Amount,
			LedgerEntryDate:        dbtime.DateOf(in.PaidAt.In(in.Location)),
			LedgerEntryDescription: &desc,
			LedgerEntryReference:   &ref,
			LedgerEntrySource:      ledgerModel.SourceFeePayment,
			LedgerEntrySourceID:    &pay.FeePaymentID,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &pay, &due, nil
}
