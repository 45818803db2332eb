package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func (k Kind) Valid() bool { return k == KindIncome || k == KindExpense }

// Source marks who wrote the entry; only manual entries are editable.
type Source string

const (
	SourceManual     Source = "manual"
	SourceFeePayment Source = "fee_payment"
)

const CategoryFees = "fees"

type LedgerEntryModel struct {
	LedgerEntryID       uuid.UUID `gorm:"column:ledger_entry_id;type:uuid;primaryKey" json:"ledger_entry_id"`
	LedgerEntrySchoolID uuid.UUID `gorm:"column:ledger_entry_school_id;type:uuid;not null;index:idx_ledger_school_date,priority:1" json:"ledger_entry_school_id"`

	LedgerEntryKind        Kind      `gorm:"column:ledger_entry_kind;type:varchar(10);not null" json:"ledger_entry_kind"`
	LedgerEntryCategory    string    `gorm:"column:ledger_entry_category;type:varchar(60);not null" json:"ledger_entry_category"`
	LedgerEntryAmount      int64     `gorm:"column:ledger_entry_amount;not null" json:"ledger_entry_amount"`
	LedgerEntryDate        time.Time `gorm:"column:ledger_entry_date;type:date;not null;index:idx_ledger_school_date,priority:2" json:"ledger_entry_date"`
	LedgerEntryDescription *string   `gorm:"column:ledger_entry_description;type:text" json:"ledger_entry_description,omitempty"`
	LedgerEntryReference   *string   `gorm:"column:ledger_entry_reference;type:varchar(120)" json:"ledger_entry_reference,omitempty"`

	LedgerEntrySource   Source     `gorm:"column:ledger_entry_source;type:varchar(20);not null" json:"ledger_entry_source"`
	LedgerEntrySourceID *uuid.UUID `gorm:"column:ledger_entry_source_id;type:uuid;index" json:"ledger_entry_source_id,omitempty"`

	LedgerEntryCreatedAt time.Time      `gorm:"column:ledger_entry_created_at;not null;autoCreateTime" json:"ledger_entry_created_at"`
	LedgerEntryUpdatedAt time.Time      `gorm:"column:ledger_entry_updated_at;not null;autoUpdateTime" json:"ledger_entry_updated_at"`
	LedgerEntryDeletedAt gorm.DeletedAt `gorm:"column:ledger_entry_deleted_at;index" json:"-"`
}

func (LedgerEntryModel) TableName() string { return "ledger_entries" }

func (m *LedgerEntryModel) BeforeCreate(tx *gorm.DB) error {
	if m.LedgerEntryID == uuid.Nil {
		m.LedgerEntryID = uuid.New()
	}
	if m.LedgerEntrySource == "" {
		m.LedgerEntrySource = SourceManual
	}
	return nil
}

func (m *LedgerEntryModel) AutoPosted() bool { return m.LedgerEntrySource != SourceManual }
