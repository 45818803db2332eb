package controller_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolku_backend/internals/databases/dbtest"
	"schoolku_backend/internals/features/finance/accounting/model"
	ledgerRoute "schoolku_backend/internals/features/finance/accounting/route"
	"schoolku_backend/internals/helpers/dbtime"
)

func setup(t *testing.T) (*fiber.App, *gorm.DB, string, uuid.UUID) {
	db := dbtest.Open(t, &model.LedgerEntryModel{})
	school := dbtest.School(t, db, "Test School")
	app := dbtest.TenantApp(db, func(r fiber.Router) { ledgerRoute.LedgerAdminRoutes(r, db) })
	return app, db, "/api/a/" + school.SchoolID.String(), school.SchoolID
}

func add(t *testing.T, app *fiber.App, base, kind, category string, amount int64, date string) string {
	status, body := dbtest.Do(t, app, http.MethodPost, base+"/ledger", map[string]any{
		"ledger_entry_kind":     kind,
		"ledger_entry_category": category,
		"ledger_entry_amount":   amount,
		"ledger_entry_date":     date,
	})
	require.Equal(t, http.StatusCreated, status, body)
	return body.Data()["ledger_entry_id"].(string)
}

func TestLedger_CRUDAndFilters(t *testing.T) {
	app, _, base, _ := setup(t)

	add(t, app, base, "income", "Donations", 150_000, "2025-08-01")
	id := add(t, app, base, "expense", "utilities", 40_000, "2025-08-05")
	add(t, app, base, "expense", "salaries", 900_000, "2025-09-01")

	status, body := dbtest.Do(t, app, http.MethodGet, base+"/ledger?kind=expense", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, body.List(), 2)

	status, body = dbtest.Do(t, app, http.MethodGet, base+"/ledger?category=DONATIONS", nil)
	require.Equal(t, http.StatusOK, status, body)
	require.Len(t, body.List(), 1)
	assert.Equal(t, "donations", body.List()[0].(map[string]any)["ledger_entry_category"])

	status, body = dbtest.Do(t, app, http.MethodGet, base+"/ledger?from=2025-08-01&to=2025-08-31", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, body.List(), 2)

	status, _ = dbtest.Do(t, app, http.MethodGet, base+"/ledger?kind=gift", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = dbtest.Do(t, app, http.MethodPatch, base+"/ledger/"+id, map[string]any{"ledger_entry_amount": 45_000})
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 45_000, body.Data()["ledger_entry_amount"])

	status, _ = dbtest.Do(t, app, http.MethodPatch, base+"/ledger/"+id, map[string]any{"ledger_entry_amount": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, body = dbtest.Do(t, app, http.MethodPost, base+"/ledger", map[string]any{
		"ledger_entry_kind":     "income",
		"ledger_entry_category": "fees",
		"ledger_entry_amount":   -5,
		"ledger_entry_date":     "2025-08-01",
	})
	require.Equal(t, http.StatusUnprocessableEntity, status, body)
	assert.Contains(t, body["errors"], "ledger_entry_amount")

	status, _ = dbtest.Do(t, app, http.MethodDelete, base+"/ledger/"+id, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = dbtest.Do(t, app, http.MethodGet, base+"/ledger/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLedger_AutoPostedEntriesAreLocked(t *testing.T) {
	app, db, base, schoolID := setup(t)

	src := uuid.New()
	d, _ := dbtime.ParseDate("2025-09-03")
	e := &model.LedgerEntryModel{
		LedgerEntrySchoolID: schoolID,
		LedgerEntryKind:     model.KindIncome,
		LedgerEntryCategory: model.CategoryFees,
		LedgerEntryAmount:   250_000,
		LedgerEntryDate:     d,
		LedgerEntrySource:   model.SourceFeePayment,
		LedgerEntrySourceID: &src,
	}
	require.NoError(t, db.Create(e).Error)
	path := base + "/ledger/" + e.LedgerEntryID.String()

	status, _ := dbtest.Do(t, app, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusConflict, status)
	status, _ = dbtest.Do(t, app, http.MethodPatch, path, map[string]any{"ledger_entry_amount": 1})
	assert.Equal(t, http.StatusConflict, status)
}

func TestLedger_Summary(t *testing.T) {
	app, _, base, _ := setup(t)
	add(t, app, base, "income", "fees", 600_000, "2025-08-10")
	add(t, app, base, "income", "donations", 200_000, "2025-09-10")
	add(t, app, base, "expense", "salaries", 500_000, "2025-09-20")

	status, body := dbtest.Do(t, app, http.MethodGet, base+"/ledger/summary?from=2025-08-01&to=2025-09-30", nil)
	require.Equal(t, http.StatusOK, status, body)
	data := body.Data()
	totals := data["totals"].(map[string]any)
	assert.EqualValues(t, 800_000, totals["income"])
	assert.EqualValues(t, 500_000, totals["expense"])
	assert.EqualValues(t, 300_000, totals["net"])
	assert.Len(t, data["by_category"], 3)
	assert.Len(t, data["monthly"], 2)

	status, _ = dbtest.Do(t, app, http.MethodGet, base+"/ledger/summary?from=2020-01-01&to=2025-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
