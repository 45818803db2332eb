package controller_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/databases/dbtest"
	sectionModel "schoolku_backend/internals/features/academics/sections/model"
	sectionRoute "schoolku_backend/internals/features/academics/sections/route"
	studentModel "schoolku_backend/internals/features/academics/students/model"
	studentRoute "schoolku_backend/internals/features/academics/students/route"
)

func setup(t *testing.T) (*fiber.App, string) {
	db := dbtest.Open(t, &sectionModel.ClassSectionModel{}, &studentModel.StudentModel{})
	school := dbtest.School(t, db, "Test School")
	app := dbtest.TenantApp(db, func(r fiber.Router) {
		sectionRoute.ClassSectionAdminRoutes(r, db)
		studentRoute.StudentAdminRoutes(r, db)
	})
	return app, "/api/a/" + school.SchoolID.String()
}

func createSection(t *testing.T, app *fiber.App, base string, capacity int) string {
	payload := map[string]any{
		"class_section_class_name":    "Class 10",
		"class_section_name":          "A",
		"class_section_academic_year": "2025/2026",
	}
	if capacity > 0 {
		payload["class_section_capacity"] = capacity
	}
	status, body := dbtest.Do(t, app, http.MethodPost, base+"/class-sections", payload)
	require.Equal(t, http.StatusCreated, status, body)
	return body.Data()["class_section_id"].(string)
}

func student(sectionID, admission string) map[string]any {
	return map[string]any{
		"student_admission_no": admission,
		"student_full_name":    "Student " + admission,
		"student_gender":       "female",
		"student_section_id":   sectionID,
		"student_enrolled_at":  "2025-07-14",
	}
}

func TestSection_DuplicateIsConflict(t *testing.T) {
	app, base := setup(t)
	createSection(t, app, base, 30)

	status, body := dbtest.Do(t, app, http.MethodPost, base+"/class-sections", map[string]any{
		"class_section_class_name":    "class 10",
		"class_section_name":          "a",
		"class_section_academic_year": "2025/2026",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["error_code"])
}

func TestStudent_CapacityAndAdmissionNo(t *testing.T) {
	app, base := setup(t)
	sec := createSection(t, app, base, 2)

	for i := 1; i <= 2; i++ {
		status, body := dbtest.Do(t, app, http.MethodPost, base+"/students", student(sec, fmt.Sprintf("A-%d", i)))
		require.Equal(t, http.StatusCreated, status, body)
	}

	status, _ := dbtest.Do(t, app, http.MethodPost, base+"/students", student(sec, "A-3"))
	assert.Equal(t, http.StatusConflict, status, "section full")

	// an inactive student does not take a seat
	inactive := student(sec, "A-4")
	inactive["student_is_active"] = false
	status, _ = dbtest.Do(t, app, http.MethodPost, base+"/students", inactive)
	assert.Equal(t, http.StatusCreated, status)

	status, _ = dbtest.Do(t, app, http.MethodPost, base+"/students", student(sec, "A-1"))
	assert.Equal(t, http.StatusConflict, status, "admission number reused")
}

func TestStudent_ValidationAndList(t *testing.T) {
	app, base := setup(t)
	sec := createSection(t, app, base, 0)

	bad := student(sec, "B-1")
	bad["student_gender"] = "x"
	status, body := dbtest.Do(t, app, http.MethodPost, base+"/students", bad)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "student_gender")

	status, _ = dbtest.Do(t, app, http.MethodPost, base+"/students", student(sec, "B-1"))
	require.Equal(t, http.StatusCreated, status)

	status, body = dbtest.Do(t, app, http.MethodGet, base+"/students?q=b-1&section_id="+sec, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.List(), 1)
	row := body.List()[0].(map[string]any)
	assert.Equal(t, "Class 10 - A", row["student_section_label"])
	assert.Equal(t, "2025-07-14", row["student_enrolled_at"])

	meta := body["pagination"].(map[string]any)
	assert.EqualValues(t, 1, meta["total"])
}

func TestSection_DeleteRefusedWithStudents(t *testing.T) {
	app, base := setup(t)
	sec := createSection(t, app, base, 0)

	status, body := dbtest.Do(t, app, http.MethodPost, base+"/students", student(sec, "C-1"))
	require.Equal(t, http.StatusCreated, status)
	studentID := body.Data()["student_id"].(string)

	status, body = dbtest.Do(t, app, http.MethodGet, base+"/class-sections/"+sec, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body.Data()["class_section_student_count"])

	status, _ = dbtest.Do(t, app, http.MethodDelete, base+"/class-sections/"+sec, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = dbtest.Do(t, app, http.MethodDelete, base+"/students/"+studentID, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = dbtest.Do(t, app, http.MethodDelete, base+"/class-sections/"+sec, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = dbtest.Do(t, app, http.MethodGet, base+"/class-sections/"+sec, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestScope_RejectsUnknownSchool(t *testing.T) {
	app, _ := setup(t)

	status, _ := dbtest.Do(t, app, http.MethodGet, "/api/a/not-a-uuid/students", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = dbtest.Do(t, app, http.MethodGet, "/api/a/6f1c1f8e-4c61-4f4e-9d2e-000000000000/students", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
