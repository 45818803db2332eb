package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BorrowerType string

const (
	BorrowerStudent BorrowerType = "student"
	BorrowerStaff   BorrowerType = "staff"
)

type LoanStatus string

const (
	LoanIssued   LoanStatus = "issued"
	LoanOverdue  LoanStatus = "overdue"
	LoanReturned LoanStatus = "returned"
)

func (s LoanStatus) Valid() bool {
	return s == LoanIssued || s == LoanOverdue || s == LoanReturned
}

// LibraryLoanModel is one circulation record. Status is derived, never stored.
type LibraryLoanModel struct {
	LibraryLoanID       uuid.UUID `gorm:"column:library_loan_id;type:uuid;primaryKey" json:"library_loan_id"`
	LibraryLoanSchoolID uuid.UUID `gorm:"column:library_loan_school_id;type:uuid;not null;index:idx_library_loans_school_due,priority:1" json:"library_loan_school_id"`
	LibraryLoanBookID   uuid.UUID `gorm:"column:library_loan_book_id;type:uuid;not null;index" json:"library_loan_book_id"`

	LibraryLoanBorrowerType BorrowerType `gorm:"column:library_loan_borrower_type;type:varchar(10);not null;index:idx_library_loans_borrower,priority:1" json:"library_loan_borrower_type"`
	LibraryLoanBorrowerID   uuid.UUID    `gorm:"column:library_loan_borrower_id;type:uuid;not null;index:idx_library_loans_borrower,priority:2" json:"library_loan_borrower_id"`

	LibraryLoanIssuedAt   time.Time  `gorm:"column:library_loan_issued_at;type:date;not null" json:"library_loan_issued_at"`
	LibraryLoanDueAt      time.Time  `gorm:"column:library_loan_due_at;type:date;not null;index:idx_library_loans_school_due,priority:2" json:"library_loan_due_at"`
	LibraryLoanReturnedAt *time.Time `gorm:"column:library_loan_returned_at;type:date" json:"library_loan_returned_at,omitempty"`
	LibraryLoanFine       int64      `gorm:"column:library_loan_fine;not null" json:"library_loan_fine"`
	LibraryLoanNote       *string    `gorm:"column:library_loan_note;type:text" json:"library_loan_note,omitempty"`

	LibraryLoanCreatedAt time.Time      `gorm:"column:library_loan_created_at;not null;autoCreateTime" json:"library_loan_created_at"`
	LibraryLoanUpdatedAt time.Time      `gorm:"column:library_loan_updated_at;not null;autoUpdateTime" json:"library_loan_updated_at"`
	LibraryLoanDeletedAt gorm.DeletedAt `gorm:"column:library_loan_deleted_at;index" json:"-"`
}

func (LibraryLoanModel) TableName() string { return "library_loans" }

func (m *LibraryLoanModel) BeforeCreate(tx *gorm.DB) error {
	if m.LibraryLoanID == uuid.Nil {
		m.LibraryLoanID = uuid.New()
	}
	return nil
}
