package dto

import (
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/library/circulations/model"
	"schoolku_backend/internals/features/library/circulations/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
)

type IssueRequest struct {
	BookID       uuid.UUID `json:"library_loan_book_id" form:"library_loan_book_id" validate:"required"`
	BorrowerType string    `json:"library_loan_borrower_type" form:"library_loan_borrower_type" validate:"required,oneof=student staff"`
	BorrowerID   uuid.UUID `json:"library_loan_borrower_id" form:"library_loan_borrower_id" validate:"required"`
	IssuedAt     *string   `json:"library_loan_issued_at" form:"library_loan_issued_at" validate:"omitempty,datetime=2006-01-02"`
	DueAt        *string   `json:"library_loan_due_at" form:"library_loan_due_at" validate:"omitempty,datetime=2006-01-02"`
	Note         *string   `json:"library_loan_note" form:"library_loan_note" validate:"omitempty,max=500"`
}

// ToModel: issued_at defaults to today and due_at to issued_at + loan days.
func (r IssueRequest) ToModel(schoolID uuid.UUID, today time.Time, p service.Policy) *model.LibraryLoanModel {
	issued := dbtime.DateOf(today)
	if r.IssuedAt != nil {
		if d, err := dbtime.ParseDate(*r.IssuedAt); err == nil {
			issued = d
		}
	}
	due := p.DueAt(issued)
	if r.DueAt != nil {
		if d, err := dbtime.ParseDate(*r.DueAt); err == nil {
			due = d
		}
	}
	return &model.LibraryLoanModel{
		LibraryLoanSchoolID:     schoolID,
		LibraryLoanBookID:       r.BookID,
		LibraryLoanBorrowerType: model.BorrowerType(r.BorrowerType),
		LibraryLoanBorrowerID:   r.BorrowerID,
		LibraryLoanIssuedAt:     issued,
		LibraryLoanDueAt:        due,
		LibraryLoanNote:         helper.TrimPtr(r.Note),
	}
}

type ReturnRequest struct {
	ReturnedAt *string `json:"library_loan_returned_at" form:"library_loan_returned_at" validate:"omitempty,datetime=2006-01-02"`
}

type LoanResponse struct {
	LibraryLoanID           uuid.UUID `json:"library_loan_id"`
	LibraryLoanBookID       uuid.UUID `json:"library_loan_book_id"`
	LibraryLoanBookTitle    string    `json:"library_loan_book_title,omitempty"`
	LibraryLoanBorrowerType string    `json:"library_loan_borrower_type"`
	LibraryLoanBorrowerID   uuid.UUID `json:"library_loan_borrower_id"`
	LibraryLoanBorrowerName string    `json:"library_loan_borrower_name,omitempty"`
	LibraryLoanIssuedAt     string    `json:"library_loan_issued_at"`
	LibraryLoanDueAt        string    `json:"library_loan_due_at"`
	LibraryLoanReturnedAt   *string   `json:"library_loan_returned_at,omitempty"`
	LibraryLoanStatus       string    `json:"library_loan_status"`
	LibraryLoanDaysOverdue  int       `json:"library_loan_days_overdue"`
	LibraryLoanFine         int64     `json:"library_loan_fine"`
	LibraryLoanNote         *string   `json:"library_loan_note,omitempty"`
}

// FromModel: an open overdue loan reports the fine accrued so far.
func FromModel(m *model.LibraryLoanModel, today time.Time, p service.Policy) LoanResponse {
	r := LoanResponse{
		LibraryLoanID:           m.LibraryLoanID,
		LibraryLoanBookID:       m.LibraryLoanBookID,
		LibraryLoanBorrowerType: string(m.LibraryLoanBorrowerType),
		LibraryLoanBorrowerID:   m.LibraryLoanBorrowerID,
		LibraryLoanIssuedAt:     m.LibraryLoanIssuedAt.Format(dbtime.DateLayout),
		LibraryLoanDueAt:        m.LibraryLoanDueAt.Format(dbtime.DateLayout),
		LibraryLoanStatus:       string(service.Status(m, today)),
		LibraryLoanFine:         m.LibraryLoanFine,
		LibraryLoanNote:         m.LibraryLoanNote,
	}
	if m.LibraryLoanReturnedAt != nil {
		s := m.LibraryLoanReturnedAt.Format(dbtime.DateLayout)
		r.LibraryLoanReturnedAt = &s
		r.LibraryLoanDaysOverdue = dbtime.DaysLate(m.LibraryLoanDueAt, *m.LibraryLoanReturnedAt)
	} else {
		r.LibraryLoanDaysOverdue = dbtime.DaysLate(m.LibraryLoanDueAt, today)
		r.LibraryLoanFine = p.Fine(m.LibraryLoanDueAt, today)
	}
	return r
}
