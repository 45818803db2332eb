package controller_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/databases/dbtest"
	leaveModel "schoolku_backend/internals/features/staff/leaves/model"
	leaveRoute "schoolku_backend/internals/features/staff/leaves/route"
	staffModel "schoolku_backend/internals/features/staff/members/model"
	staffRoute "schoolku_backend/internals/features/staff/members/route"
)

func setup(t *testing.T) (*fiber.App, string) {
	db := dbtest.Open(t, &staffModel.StaffModel{}, &leaveModel.StaffLeaveModel{})
	school := dbtest.School(t, db, "Test School")
	app := dbtest.TenantApp(db, func(r fiber.Router) {
		staffRoute.StaffAdminRoutes(r, db)
		leaveRoute.LeaveAdminRoutes(r, db)
	})
	return app, "/api/a/" + school.SchoolID.String()
}

func createStaff(t *testing.T, app *fiber.App, base, employeeNo, role string) string {
	status, body := dbtest.Do(t, app, http.MethodPost, base+"/staff", map[string]any{
		"staff_employee_no": employeeNo,
		"staff_full_name":   "Staff " + employeeNo,
		"staff_role":        role,
		"staff_department":  "Science",
		"staff_join_date":   "2024-01-08",
	})
	require.Equal(t, http.StatusCreated, status, body)
	return body.Data()["staff_id"].(string)
}

func leave(staffID, start, end string, halfDay bool) map[string]any {
	return map[string]any{
		"staff_leave_staff_id":   staffID,
		"staff_leave_type":       "casual",
		"staff_leave_start_date": start,
		"staff_leave_end_date":   end,
		"staff_leave_half_day":   halfDay,
	}
}

func TestStaff_CRUDAndFilters(t *testing.T) {
	app, base := setup(t)
	teacher := createStaff(t, app, base, "EMP-1", "teacher")
	createStaff(t, app, base, "EMP-2", "librarian")

	status, body := dbtest.Do(t, app, http.MethodPost, base+"/staff", map[string]any{
		"staff_employee_no": "EMP-1",
		"staff_full_name":   "Someone Else",
		"staff_role":        "admin",
	})
	assert.Equal(t, http.StatusConflict, status, body)

	status, body = dbtest.Do(t, app, http.MethodPost, base+"/staff", map[string]any{
		"staff_employee_no": "EMP-3",
		"staff_full_name":   "Bad Role",
		"staff_role":        "janitor",
		"staff_email":       "not-an-email",
	})
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "staff_role")
	assert.Contains(t, body["errors"], "staff_email")

	status, body = dbtest.Do(t, app, http.MethodGet, base+"/staff?role=teacher", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.List(), 1)
	assert.Equal(t, teacher, body.List()[0].(map[string]any)["staff_id"])

	status, _ = dbtest.Do(t, app, http.MethodGet, base+"/staff?role=janitor", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = dbtest.Do(t, app, http.MethodPatch, base+"/staff/"+teacher, map[string]any{"staff_is_active": false})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, false, body.Data()["staff_is_active"])

	for q, want := range map[string]int{
		"is_active=true":        1,
		"is_active=false":       1,
		"department=science":    2,
		"q=emp-2":               1,
		"q=staff":               2,
		"department=humanities": 0,
	} {
		status, body := dbtest.Do(t, app, http.MethodGet, base+"/staff?"+q, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, body.List(), want, q)
	}

	status, _ = dbtest.Do(t, app, http.MethodDelete, base+"/staff/"+teacher, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = dbtest.Do(t, app, http.MethodGet, base+"/staff/"+teacher, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// the employee number is free again once the holder is deleted
	createStaff(t, app, base, "EMP-1", "teacher")
}

func TestLeave_DurationAndOverlap(t *testing.T) {
	app, base := setup(t)
	staff := createStaff(t, app, base, "EMP-1", "teacher")

	// Thu 2025-09-04 .. Tue 2025-09-09
	status, body := dbtest.Do(t, app, http.MethodPost, base+"/staff-leaves", leave(staff, "2025-09-04", "2025-09-09", false))
	require.Equal(t, http.StatusCreated, status, body)
	assert.EqualValues(t, 4, body.Data()["staff_leave_days"])
	assert.Equal(t, "pending", body.Data()["staff_leave_status"])

	status, _ = dbtest.Do(t, app, http.MethodPost, base+"/staff-leaves", leave(staff, "2025-09-09", "2025-09-10", false))
	assert.Equal(t, http.StatusConflict, status)

	status, body = dbtest.Do(t, app, http.MethodPost, base+"/staff-leaves", leave(staff, "2025-09-13", "2025-09-14", false))
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "staff_leave_start_date")

	status, body = dbtest.Do(t, app, http.MethodPost, base+"/staff-leaves", leave(staff, "2025-09-15", "2025-09-16", true))
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "staff_leave_half_day")

	status, body = dbtest.Do(t, app, http.MethodPost, base+"/staff-leaves", leave(staff, "2025-09-15", "2025-09-15", true))
	require.Equal(t, http.StatusCreated, status, body)
	assert.EqualValues(t, 0.5, body.Data()["staff_leave_days"])

	status, body = dbtest.Do(t, app, http.MethodPost, base+"/staff-leaves", leave(staff, "2025-09-10", "2025-09-08", false))
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "staff_leave_end_date")

	status, _ = dbtest.Do(t, app, http.MethodPost, base+"/staff-leaves",
		leave("6f1c2f7e-3a1b-4c55-9a47-0b8e7f1d2c3a", "2025-09-22", "2025-09-22", false))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLeave_Transitions(t *testing.T) {
	app, base := setup(t)
	staff := createStaff(t, app, base, "EMP-1", "teacher")

	status, body := dbtest.Do(t, app, http.MethodPost, base+"/staff-leaves", leave(staff, "2025-10-06", "2025-10-07", false))
	require.Equal(t, http.StatusCreated, status, body)
	first := body.Data()["staff_leave_id"].(string)

	status, body = dbtest.Do(t, app, http.MethodPost, base+"/staff-leaves/"+first+"/approve", map[string]any{
		"staff_leave_decision_note": "approved by head",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "approved", body.Data()["staff_leave_status"])
	assert.Equal(t, "approved by head", body.Data()["staff_leave_decision_note"])
	assert.NotEmpty(t, body.Data()["staff_leave_decided_at"])

	status, _ = dbtest.Do(t, app, http.MethodPost, base+"/staff-leaves/"+first+"/reject", nil)
	assert.Equal(t, http.StatusConflict, status)
	status, _ = dbtest.Do(t, app, http.MethodDelete, base+"/staff-leaves/"+first, nil)
	assert.Equal(t, http.StatusConflict, status)

	// approved leaves still block overlaps; rejected ones do not
	status, _ = dbtest.Do(t, app, http.MethodPost, base+"/staff-leaves", leave(staff, "2025-10-07", "2025-10-08", false))
	assert.Equal(t, http.StatusConflict, status)

	status, body = dbtest.Do(t, app, http.MethodPost, base+"/staff-leaves", leave(staff, "2025-10-13", "2025-10-13", false))
	require.Equal(t, http.StatusCreated, status, body)
	second := body.Data()["staff_leave_id"].(string)
	status, _ = dbtest.Do(t, app, http.MethodPost, base+"/staff-leaves/"+second+"/reject", nil)
	require.Equal(t, http.StatusOK, status)

	status, body = dbtest.Do(t, app, http.MethodPost, base+"/staff-leaves", leave(staff, "2025-10-13", "2025-10-13", false))
	require.Equal(t, http.StatusCreated, status, body)
	third := body.Data()["staff_leave_id"].(string)

	for _, tc := range []struct {
		query string
		want  int
	}{
		{"status=pending", 1},
		{"status=approved", 1},
		{"status=rejected", 1},
		{"staff_id=" + staff, 3},
		{"from=2025-10-07&to=2025-10-10", 1},
		{"from=2025-10-08&to=2025-10-10", 0},
		{"from=2025-10-13", 2},
	} {
		status, body := dbtest.Do(t, app, http.MethodGet, base+"/staff-leaves?"+tc.query, nil)
		require.Equal(t, http.StatusOK, status, tc.query)
		assert.Len(t, body.List(), tc.want, tc.query)
	}
	status, _ = dbtest.Do(t, app, http.MethodGet, base+"/staff-leaves?status=cancelled", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = dbtest.Do(t, app, http.MethodDelete, base+"/staff-leaves/"+third, nil)
	assert.Equal(t, http.StatusOK, status)
}
