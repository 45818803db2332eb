package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/features/finance/accounting/model"
	"schoolku_backend/internals/helpers/dbtime"
)

func entry(kind model.Kind, category string, amount int64, date string) model.LedgerEntryModel {
	d, _ := dbtime.ParseDate(date)
	return model.LedgerEntryModel{
		LedgerEntryKind:     kind,
		LedgerEntryCategory: category,
		LedgerEntryAmount:   amount,
		LedgerEntryDate:     d,
	}
}

func TestSummarize(t *testing.T) {
	w := dbtime.Window{
		From: time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
	}
	s := Summarize([]model.LedgerEntryModel{
		entry(model.KindIncome, "fees", 300_000, "2025-07-20"),
		entry(model.KindIncome, "fees", 300_000, "2025-09-02"),
		entry(model.KindIncome, "donations", 200_000, "2025-09-10"),
		entry(model.KindExpense, "salaries", 250_000, "2025-09-25"),
		entry(model.KindExpense, "utilities", 50_000, "2025-07-31"),
	}, w)

	assert.Equal(t, Totals{Income: 800_000, Expense: 300_000, Net: 500_000}, s.Totals)

	require.Len(t, s.ByCategory, 4)
	assert.Equal(t, "expense", s.ByCategory[0].Kind)
	assert.Equal(t, "salaries", s.ByCategory[0].Category)
	assert.Equal(t, 83.33, s.ByCategory[0].Share)
	assert.Equal(t, 16.67, s.ByCategory[1].Share)
	assert.Equal(t, "fees", s.ByCategory[2].Category)
	assert.Equal(t, 2, s.ByCategory[2].Count)
	assert.Equal(t, 75.0, s.ByCategory[2].Share)
	assert.Equal(t, 25.0, s.ByCategory[3].Share)

	require.Len(t, s.Monthly, 3)
	assert.Equal(t, "2025-07", s.Monthly[0].Month)
	assert.Equal(t, Totals{Income: 300_000, Expense: 50_000, Net: 250_000}, s.Monthly[0].Totals)
	assert.Equal(t, "2025-08", s.Monthly[1].Month)
	assert.Equal(t, Totals{}, s.Monthly[1].Totals)
	assert.Equal(t, int64(250_000), s.Monthly[2].Net)
}

func TestSummarize_Empty(t *testing.T) {
	d := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	s := Summarize(nil, dbtime.Window{From: d, To: d})
	assert.Equal(t, Totals{}, s.Totals)
	assert.Empty(t, s.ByCategory)
	require.Len(t, s.Monthly, 1)
	assert.Equal(t, "2025-02", s.Monthly[0].Month)
}
