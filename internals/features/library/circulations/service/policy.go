package service

import (
	"errors"
	"time"

	"schoolku_backend/internals/features/library/circulations/model"
	"schoolku_backend/internals/helpers/dbtime"
)

var (
	ErrNoCopies         = errors.New("no copies available")
	ErrLoanLimit        = errors.New("borrower already holds the maximum number of loans")
	ErrAlreadyReturned  = errors.New("loan already returned")
	ErrBorrowerNotFound = errors.New("borrower not found")
	ErrBookNotFound     = errors.New("book not found")
)

// Policy holds the per-deployment circulation rules.
type Policy struct {
	LoanDays   int
	MaxLoans   int
	FinePerDay int64
}

// WithDefaults fills zero values with 14 days, 3 loans and no fine.
func (p Policy) WithDefaults() Policy {
	if p.LoanDays <= 0 {
		p.LoanDays = 14
	}
	if p.MaxLoans <= 0 {
		p.MaxLoans = 3
	}
	if p.FinePerDay < 0 {
		p.FinePerDay = 0
	}
	return p
}

func (p Policy) DueAt(issuedAt time.Time) time.Time {
	return dbtime.DateOf(issuedAt).AddDate(0, 0, p.LoanDays)
}

// Fine is whole days past due times the daily rate.
func (p Policy) Fine(dueAt, returnedAt time.Time) int64 {
	return int64(dbtime.DaysLate(dueAt, returnedAt)) * p.FinePerDay
}

// Status derives issued/overdue/returned as of today.
func Status(m *model.LibraryLoanModel, today time.Time) model.LoanStatus {
	switch {
	case m.LibraryLoanReturnedAt != nil:
		return model.LoanReturned
	case m.LibraryLoanDueAt.Before(dbtime.DateOf(today)):
		return model.LoanOverdue
	default:
		return model.LoanIssued
	}
}
