package controller_test

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolku_backend/internals/databases/dbtest"
	sectionModel "schoolku_backend/internals/features/academics/sections/model"
	studentModel "schoolku_backend/internals/features/academics/students/model"
	ledgerModel "schoolku_backend/internals/features/finance/accounting/model"
	feeModel "schoolku_backend/internals/features/finance/fees/model"
	feeRoute "schoolku_backend/internals/features/finance/fees/route"
	"schoolku_backend/internals/features/finance/fees/service"
	"schoolku_backend/internals/helpers/dbtime"
)

const serverKey = "SB-Mid-server-test"

type fakeGateway struct{ calls []service.CheckoutRequest }

func (f *fakeGateway) CreateCheckout(_ context.Context, req service.CheckoutRequest) (*service.CheckoutResult, error) {
	f.calls = append(f.calls, req)
	return &service.CheckoutResult{Token: "snap-token", RedirectURL: "https://pay.example/snap-token"}, nil
}

type fixture struct {
	db       *gorm.DB
	app      *fiber.App
	base     string
	schoolID uuid.UUID
	sectionA uuid.UUID
	gateway  *fakeGateway
}

func setup(t *testing.T) fixture {
	db := dbtest.Open(t,
		&sectionModel.ClassSectionModel{},
		&studentModel.StudentModel{},
		&feeModel.FeeStructureModel{},
		&feeModel.StudentFeeModel{},
		&feeModel.FeePaymentModel{},
		&feeModel.FeeGatewayEventModel{},
		&ledgerModel.LedgerEntryModel{},
	)
	school := dbtest.School(t, db, "Test School")

	mkSection := func(name string) uuid.UUID {
		s := &sectionModel.ClassSectionModel{
			ClassSectionSchoolID:     school.SchoolID,
			ClassSectionClassName:    "Class 4",
			ClassSectionName:         name,
			ClassSectionAcademicYear: "2025/2026",
		}
		require.NoError(t, db.Create(s).Error)
		return s.ClassSectionID
	}
	a, b := mkSection("A"), mkSection("B")
	for i, s := range []struct {
		section uuid.UUID
		name    string
		active  bool
	}{
		{a, "Ayu", true},
		{a, "Bima", true},
		{b, "Citra", true},
		{a, "Dodi", false},
	} {
		st := &studentModel.StudentModel{
			StudentSchoolID:    school.SchoolID,
			StudentSectionID:   s.section,
			StudentAdmissionNo: "ADM-" + strconv.Itoa(i),
			StudentFullName:    s.name,
			StudentGender:      studentModel.GenderMale,
			StudentEnrolledAt:  dbtime.DateOf(time.Now()),
			StudentIsActive:    s.active,
		}
		require.NoError(t, db.Create(st).Error)
	}

	gw := &fakeGateway{}
	app := dbtest.TenantApp(db, func(r fiber.Router) { feeRoute.FeeAdminRoutes(r, db, gw, serverKey) })
	feeRoute.FeePublicRoutes(app.Group("/api/public"), db, serverKey)
	return fixture{
		db:       db,
		app:      app,
		base:     "/api/a/" + school.SchoolID.String(),
		schoolID: school.SchoolID,
		sectionA: a,
		gateway:  gw,
	}
}

func (f fixture) structure(t *testing.T, payload map[string]any) string {
	status, body := dbtest.Do(t, f.app, http.MethodPost, f.base+"/fees/structures", payload)
	require.Equal(t, http.StatusCreated, status, body)
	return body.Data()["fee_structure_id"].(string)
}

func (f fixture) assign(t *testing.T, id string) map[string]any {
	status, body := dbtest.Do(t, f.app, http.MethodPost, f.base+"/fees/structures/"+id+"/assign", nil)
	require.Equal(t, http.StatusOK, status, body)
	return body.Data()
}

func (f fixture) firstDue(t *testing.T, query string) map[string]any {
	status, body := dbtest.Do(t, f.app, http.MethodGet, f.base+"/fees/dues?"+query, nil)
	require.Equal(t, http.StatusOK, status, body)
	require.NotEmpty(t, body.List())
	return body.List()[0].(map[string]any)
}

func TestStructure_DefaultsAndAssignIsIdempotent(t *testing.T) {
	f := setup(t)
	id := f.structure(t, map[string]any{
		"fee_structure_name":       "Tuition",
		"fee_structure_amount":     250_000,
		"fee_structure_frequency":  "monthly",
		"fee_structure_due_day":    10,
		"fee_structure_section_id": f.sectionA.String(),
		"fee_structure_starts_on":  "2025-07-01",
	})

	status, body := dbtest.Do(t, f.app, http.MethodGet, f.base+"/fees/structures/"+id, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "2026-06-30", body.Data()["fee_structure_ends_on"])
	assert.EqualValues(t, 12, body.Data()["fee_structure_due_count"])

	// two active students in section A, twelve months each
	res := f.assign(t, id)
	assert.EqualValues(t, 2, res["students"])
	assert.EqualValues(t, 24, res["created"])

	res = f.assign(t, id)
	assert.EqualValues(t, 0, res["created"])
	assert.EqualValues(t, 24, res["skipped"])

	status, body = dbtest.Do(t, f.app, http.MethodGet, f.base+"/fees/dues?structure_id="+id, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 24, body["pagination"].(map[string]any)["total"])
	first := body.List()[0].(map[string]any)
	assert.Equal(t, "2025-07-10", first["student_fee_due_date"])
	assert.Equal(t, "July 2025", first["student_fee_period_label"])
	assert.Equal(t, "pending", first["student_fee_status"])
	assert.Equal(t, true, first["student_fee_is_overdue"])
	assert.Equal(t, "Tuition", first["student_fee_name"])

	// export listing: per_page=all returns every due on one page
	status, body = dbtest.Do(t, f.app, http.MethodGet, f.base+"/fees/dues?structure_id="+id+"&per_page=all&page=3", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, body.List(), 24)
	meta := body["pagination"].(map[string]any)
	assert.EqualValues(t, 1, meta["page"])
	assert.EqualValues(t, 10_000, meta["per_page"])
	assert.EqualValues(t, 1, meta["total_pages"])

	status, body = dbtest.Do(t, f.app, http.MethodGet, f.base+"/fees/dues?structure_id="+id+"&per_page=5", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, body.List(), 5)
}

func TestStructure_Validation(t *testing.T) {
	f := setup(t)
	status, body := dbtest.Do(t, f.app, http.MethodPost, f.base+"/fees/structures", map[string]any{
		"fee_structure_name":      "Bus",
		"fee_structure_amount":    0,
		"fee_structure_frequency": "weekly",
		"fee_structure_due_day":   40,
		"fee_structure_starts_on": "2025-07-01",
	})
	require.Equal(t, http.StatusUnprocessableEntity, status, body)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "fee_structure_amount")
	assert.Contains(t, errs, "fee_structure_frequency")
	assert.Contains(t, errs, "fee_structure_due_day")

	status, body = dbtest.Do(t, f.app, http.MethodPost, f.base+"/fees/structures", map[string]any{
		"fee_structure_name":      "Bus",
		"fee_structure_amount":    100,
		"fee_structure_frequency": "yearly",
		"fee_structure_due_day":   1,
		"fee_structure_starts_on": "2025-07-01",
		"fee_structure_ends_on":   "2025-06-01",
	})
	require.Equal(t, http.StatusUnprocessableEntity, status, body)
	assert.Contains(t, body["errors"], "fee_structure_ends_on")
}

func TestStructure_DeleteSoftDeletesDues(t *testing.T) {
	f := setup(t)
	id := f.structure(t, map[string]any{
		"fee_structure_name":       "Uniform",
		"fee_structure_amount":     200_000,
		"fee_structure_frequency":  "one_time",
		"fee_structure_due_day":    5,
		"fee_structure_section_id": f.sectionA.String(),
		"fee_structure_starts_on":  "2025-09-01",
	})
	res := f.assign(t, id)
	require.EqualValues(t, 2, res["created"])

	status, body := dbtest.Do(t, f.app, http.MethodDelete, f.base+"/fees/structures/"+id, nil)
	require.Equal(t, http.StatusOK, status, body)

	status, body = dbtest.Do(t, f.app, http.MethodGet, f.base+"/fees/dues?structure_id="+id, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Empty(t, body.List())

	var live, all int64
	require.NoError(t, f.db.Model(&feeModel.StudentFeeModel{}).
		Where("student_fee_structure_id = ?", id).Count(&live).Error)
	require.NoError(t, f.db.Unscoped().Model(&feeModel.StudentFeeModel{}).
		Where("student_fee_structure_id = ? AND student_fee_deleted_at IS NOT NULL", id).Count(&all).Error)
	assert.EqualValues(t, 0, live)
	assert.EqualValues(t, 2, all)

	status, _ = dbtest.Do(t, f.app, http.MethodPost, f.base+"/fees/structures/"+id+"/assign", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPayments_StatusFlowAndLedger(t *testing.T) {
	f := setup(t)
	id := f.structure(t, map[string]any{
		"fee_structure_name":      "Exam fee",
		"fee_structure_amount":    300_000,
		"fee_structure_frequency": "one_time",
		"fee_structure_due_day":   15,
		"fee_structure_starts_on": "2025-08-01",
		"fee_structure_late_fee":  10_000,
	})
	res := f.assign(t, id)
	require.EqualValues(t, 3, res["created"])

	due := f.firstDue(t, "structure_id="+id)
	dueID := due["student_fee_id"].(string)
	assert.EqualValues(t, 10_000, due["student_fee_late_fee"])
	pay := func(amount int) (int, dbtest.Body) {
		return dbtest.Do(t, f.app, http.MethodPost, f.base+"/fees/dues/"+dueID+"/payments", map[string]any{
			"fee_payment_amount":  amount,
			"fee_payment_method":  "cash",
			"fee_payment_paid_at": "2025-08-20",
		})
	}

	status, body := dbtest.Do(t, f.app, http.MethodPatch, f.base+"/fees/dues/"+dueID, map[string]any{"student_fee_discount": 50_000})
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 250_000, body.Data()["student_fee_pending_amount"])

	status, body = pay(100_000)
	require.Equal(t, http.StatusCreated, status, body)
	d := body.Data()["due"].(map[string]any)
	assert.Equal(t, "partial", d["student_fee_status"])
	assert.EqualValues(t, 150_000, d["student_fee_pending_amount"])

	status, body = pay(200_000)
	require.Equal(t, http.StatusUnprocessableEntity, status, body)
	assert.Contains(t, body["errors"], "fee_payment_amount")

	status, body = pay(150_000)
	require.Equal(t, http.StatusCreated, status, body)
	d = body.Data()["due"].(map[string]any)
	assert.Equal(t, "paid", d["student_fee_status"])
	assert.Equal(t, false, d["student_fee_is_overdue"])

	status, _ = pay(1)
	assert.Equal(t, http.StatusConflict, status)

	status, body = dbtest.Do(t, f.app, http.MethodGet, f.base+"/fees/dues/"+dueID, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, body.Data()["payments"], 2)
	assert.EqualValues(t, 0, body.Data()["student_fee_late_fee"])

	var entries []ledgerModel.LedgerEntryModel
	require.NoError(t, f.db.Where("ledger_entry_school_id = ?", f.schoolID).Order("ledger_entry_amount").Find(&entries).Error)
	require.Len(t, entries, 2)
	assert.Equal(t, ledgerModel.KindIncome, entries[0].LedgerEntryKind)
	assert.Equal(t, ledgerModel.CategoryFees, entries[0].LedgerEntryCategory)
	assert.Equal(t, ledgerModel.SourceFeePayment, entries[0].LedgerEntrySource)
	assert.Equal(t, "2025-08-20", entries[0].LedgerEntryDate.Format(dbtime.DateLayout))

	// status filters
	for q, want := range map[string]int{
		"status=paid":    1,
		"status=pending": 2,
		"status=partial": 0,
		"overdue=true":   2,
		"overdue=false":  1,
	} {
		status, body := dbtest.Do(t, f.app, http.MethodGet, f.base+"/fees/dues?"+q, nil)
		require.Equal(t, http.StatusOK, status, body)
		assert.Len(t, body.List(), want, q)
	}
	status, _ = dbtest.Do(t, f.app, http.MethodGet, f.base+"/fees/dues?status=late", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = dbtest.Do(t, f.app, http.MethodGet, f.base+"/fees/payments?from=2025-08-20&to=2025-08-20", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, body.List(), 2)

	// structures with payments cannot be deleted
	status, _ = dbtest.Do(t, f.app, http.MethodDelete, f.base+"/fees/structures/"+id, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestCheckoutAndWebhook(t *testing.T) {
	f := setup(t)
	id := f.structure(t, map[string]any{
		"fee_structure_name":      "Books",
		"fee_structure_amount":    120_000,
		"fee_structure_frequency": "one_time",
		"fee_structure_due_day":   1,
		"fee_structure_starts_on": "2025-09-01",
	})
	f.assign(t, id)
	dueID := f.firstDue(t, "structure_id="+id)["student_fee_id"].(string)

	status, body := dbtest.Do(t, f.app, http.MethodPost, f.base+"/fees/dues/"+dueID+"/checkout", nil)
	require.Equal(t, http.StatusCreated, status, body)
	orderID := body.Data()["order_id"].(string)
	assert.Equal(t, "snap-token", body.Data()["token"])
	require.Len(t, f.gateway.calls, 1)
	assert.EqualValues(t, 120_000, f.gateway.calls[0].Amount)
	parsed, err := service.ParseOrderID(orderID)
	require.NoError(t, err)
	assert.Equal(t, dueID, parsed.String())

	notify := func(sig string) (int, dbtest.Body) {
		return dbtest.Do(t, f.app, http.MethodPost, "/api/public/payments/midtrans/webhook", map[string]any{
			"order_id":           orderID,
			"status_code":        "200",
			"gross_amount":       "120000.00",
			"transaction_status": "settlement",
			"transaction_id":     "trx-1",
			"signature_key":      sig,
		})
	}

	status, _ = notify("deadbeef")
	assert.Equal(t, http.StatusUnauthorized, status)

	sig := service.Signature(orderID, "200", "120000.00", serverKey)
	status, body = notify(sig)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "processed", body.Data()["status"])

	// retries from the gateway are acknowledged without a second payment
	status, body = notify(sig)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "duplicate", body.Data()["status"])

	var pays int64
	require.NoError(t, f.db.Model(&feeModel.FeePaymentModel{}).Count(&pays).Error)
	assert.EqualValues(t, 1, pays)

	status, body = dbtest.Do(t, f.app, http.MethodGet, f.base+"/fees/dues/"+dueID, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "paid", body.Data()["student_fee_status"])

	var events []feeModel.FeeGatewayEventModel
	require.NoError(t, f.db.Order("gateway_event_received_at").Find(&events).Error)
	require.Len(t, events, 3)
	statuses := map[feeModel.GatewayEventStatus]int{}
	for _, e := range events {
		statuses[e.GatewayEventStatus]++
	}
	assert.Equal(t, map[feeModel.GatewayEventStatus]int{
		feeModel.GatewayEventRejected:  1,
		feeModel.GatewayEventProcessed: 1,
		feeModel.GatewayEventIgnored:   1,
	}, statuses)

	status, _ = dbtest.Do(t, f.app, http.MethodPost, f.base+"/fees/dues/"+dueID+"/checkout", nil)
	assert.Equal(t, http.StatusConflict, status)
}
