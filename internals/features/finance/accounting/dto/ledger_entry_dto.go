package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/finance/accounting/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
)

type CreateLedgerEntryRequest struct {
	LedgerEntryKind        string  `json:"ledger_entry_kind" form:"ledger_entry_kind" validate:"required,oneof=income expense"`
	LedgerEntryCategory    string  `json:"ledger_entry_category" form:"ledger_entry_category" validate:"required,min=2,max=60"`
	LedgerEntryAmount      int64   `json:"ledger_entry_amount" form:"ledger_entry_amount" validate:"required,gt=0"`
	LedgerEntryDate        string  `json:"ledger_entry_date" form:"ledger_entry_date" validate:"required,datetime=2006-01-02"`
	LedgerEntryDescription *string `json:"ledger_entry_description" form:"ledger_entry_description" validate:"omitempty,max=1000"`
	LedgerEntryReference   *string `json:"ledger_entry_reference" form:"ledger_entry_reference" validate:"omitempty,max=120"`
}

func (r CreateLedgerEntryRequest) ToModel(schoolID uuid.UUID) *model.LedgerEntryModel {
	d, _ := dbtime.ParseDate(r.LedgerEntryDate)
	return &model.LedgerEntryModel{
		LedgerEntrySchoolID:    schoolID,
		LedgerEntryKind:        model.Kind(r.LedgerEntryKind),
		LedgerEntryCategory:    normalizeCategory(r.LedgerEntryCategory),
		LedgerEntryAmount:      r.LedgerEntryAmount,
		LedgerEntryDate:        d,
		LedgerEntryDescription: helper.TrimPtr(r.LedgerEntryDescription),
		LedgerEntryReference:   helper.TrimPtr(r.LedgerEntryReference),
		LedgerEntrySource:      model.SourceManual,
	}
}

type UpdateLedgerEntryRequest struct {
	LedgerEntryKind        *string `json:"ledger_entry_kind" form:"ledger_entry_kind" validate:"omitempty,oneof=income expense"`
	LedgerEntryCategory    *string `json:"ledger_entry_category" form:"ledger_entry_category" validate:"omitempty,min=2,max=60"`
	LedgerEntryAmount      *int64  `json:"ledger_entry_amount" form:"ledger_entry_amount" validate:"omitempty,gt=0"`
	LedgerEntryDate        *string `json:"ledger_entry_date" form:"ledger_entry_date" validate:"omitempty,datetime=2006-01-02"`
	LedgerEntryDescription *string `json:"ledger_entry_description" form:"ledger_entry_description" validate:"omitempty,max=1000"`
	LedgerEntryReference   *string `json:"ledger_entry_reference" form:"ledger_entry_reference" validate:"omitempty,max=120"`
}

func (r *UpdateLedgerEntryRequest) ApplyToModel(m *model.LedgerEntryModel) {
	if r.LedgerEntryKind != nil {
		m.LedgerEntryKind = model.Kind(*r.LedgerEntryKind)
	}
	if r.LedgerEntryCategory != nil {
		m.LedgerEntryCategory = normalizeCategory(*r.LedgerEntryCategory)
	}
	if r.LedgerEntryAmount != nil {
		m.LedgerEntryAmount = *r.LedgerEntryAmount
	}
	if r.LedgerEntryDate != nil {
		if d, err := dbtime.ParseDate(*r.LedgerEntryDate); err == nil {
			m.LedgerEntryDate = d
		}
	}
	if r.LedgerEntryDescription != nil {
		m.LedgerEntryDescription = helper.TrimPtr(r.LedgerEntryDescription)
	}
	if r.LedgerEntryReference != nil {
		m.LedgerEntryReference = helper.TrimPtr(r.LedgerEntryReference)
	}
}

type ListLedgerQuery struct {
	Kind     string `query:"kind"`
	Category string `query:"category"`
}

type LedgerEntryResponse struct {
	LedgerEntryID          uuid.UUID  `json:"ledger_entry_id"`
	LedgerEntryKind        string     `json:"ledger_entry_kind"`
	LedgerEntryCategory    string     `json:"ledger_entry_category"`
	LedgerEntryAmount      int64      `json:"ledger_entry_amount"`
	LedgerEntryDate        string     `json:"ledger_entry_date"`
	LedgerEntryDescription *string    `json:"ledger_entry_description"`
	LedgerEntryReference   *string    `json:"ledger_entry_reference"`
	LedgerEntrySource      string     `json:"ledger_entry_source"`
	LedgerEntrySourceID    *uuid.UUID `json:"ledger_entry_source_id"`
	LedgerEntryCreatedAt   time.Time  `json:"ledger_entry_created_at"`
}

func FromModel(m *model.LedgerEntryModel) LedgerEntryResponse {
	return LedgerEntryResponse{
		LedgerEntryID:          m.LedgerEntryID,
		LedgerEntryKind:        string(m.LedgerEntryKind),
		LedgerEntryCategory:    m.LedgerEntryCategory,
		LedgerEntryAmount:      m.LedgerEntryAmount,
		LedgerEntryDate:        m.LedgerEntryDate.Format(dbtime.DateLayout),
		LedgerEntryDescription: m.LedgerEntryDescription,
		LedgerEntryReference:   m.LedgerEntryReference,
		LedgerEntrySource:      string(m.LedgerEntrySource),
		LedgerEntrySourceID:    m.LedgerEntrySourceID,
		LedgerEntryCreatedAt:   m.LedgerEntryCreatedAt,
	}
}

// categories are stored lower-case so the breakdown groups them consistently
func normalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
