package controller_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/databases/dbtest"
	sectionModel "schoolku_backend/internals/features/academics/sections/model"
	sectionRoute "schoolku_backend/internals/features/academics/sections/route"
	studentModel "schoolku_backend/internals/features/academics/students/model"
)

func TestClassSectionCRUD(t *testing.T) {
	db := dbtest.Open(t, &sectionModel.ClassSectionModel{}, &studentModel.StudentModel{})
	school := dbtest.School(t, db, "Test School")
	other := dbtest.School(t, db, "Other School")
	app := dbtest.TenantApp(db, func(r fiber.Router) { sectionRoute.ClassSectionAdminRoutes(r, db) })
	base := "/api/a/" + school.SchoolID.String() + "/class-sections"

	payload := map[string]any{
		"class_section_class_name":    "Class 10",
		"class_section_name":          "A",
		"class_section_academic_year": "2025/2026",
		"class_section_capacity":      32,
	}
	code, body := dbtest.Do(t, app, http.MethodPost, base, payload)
	require.Equal(t, http.StatusCreated, code, body)
	id := body.Data()["class_section_id"].(string)
	assert.Equal(t, "Class 10 - A", body.Data()["class_section_label"])

	code, _ = dbtest.Do(t, app, http.MethodPost, base, payload)
	assert.Equal(t, http.StatusConflict, code)

	// same section in another tenant is fine
	code, _ = dbtest.Do(t, app, http.MethodPost, "/api/a/"+other.SchoolID.String()+"/class-sections", payload)
	assert.Equal(t, http.StatusCreated, code)

	code, body = dbtest.Do(t, app, http.MethodPost, base, map[string]any{
		"class_section_name":     "B",
		"class_section_capacity": 0,
	})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "class_section_class_name")
	assert.Contains(t, errs, "class_section_academic_year")
	assert.Contains(t, errs, "class_section_capacity")

	payload["class_section_name"] = "B"
	code, body = dbtest.Do(t, app, http.MethodPost, base, payload)
	require.Equal(t, http.StatusCreated, code, body)
	idB := body.Data()["class_section_id"].(string)

	require.NoError(t, db.Create(&studentModel.StudentModel{
		StudentSchoolID:    school.SchoolID,
		StudentSectionID:   uuid.MustParse(id),
		StudentAdmissionNo: "ADM-1",
		StudentFullName:    "Ayu",
		StudentGender:      studentModel.GenderFemale,
		StudentEnrolledAt:  time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC),
		StudentIsActive:    true,
	}).Error)

	code, body = dbtest.Do(t, app, http.MethodGet, base+"?q=class%2010", nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body.List(), 2)
	first := body.List()[0].(map[string]any)
	assert.Equal(t, "A", first["class_section_name"])
	assert.EqualValues(t, 1, first["class_section_student_count"])
	assert.EqualValues(t, 2, body["pagination"].(map[string]any)["total"])

	code, body = dbtest.Do(t, app, http.MethodGet, base+"/"+id, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body.Data()["class_section_student_count"])

	// renaming B onto A collides
	code, _ = dbtest.Do(t, app, http.MethodPatch, base+"/"+idB, map[string]any{"class_section_name": "A"})
	assert.Equal(t, http.StatusConflict, code)

	code, body = dbtest.Do(t, app, http.MethodPatch, base+"/"+idB, map[string]any{"class_section_name": "C"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Class 10 - C", body.Data()["class_section_label"])

	code, _ = dbtest.Do(t, app, http.MethodDelete, base+"/"+id, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = dbtest.Do(t, app, http.MethodDelete, base+"/"+idB, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = dbtest.Do(t, app, http.MethodGet, base+"/"+idB, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = dbtest.Do(t, app, http.MethodGet, base+"/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
