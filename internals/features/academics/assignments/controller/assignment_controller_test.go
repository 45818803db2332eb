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
	assignmentModel "schoolku_backend/internals/features/academics/assignments/model"
	assignmentRoute "schoolku_backend/internals/features/academics/assignments/route"
	sectionModel "schoolku_backend/internals/features/academics/sections/model"
	studentModel "schoolku_backend/internals/features/academics/students/model"
	"schoolku_backend/internals/helpers/dbtime"
)

func today() time.Time {
	return dbtime.DateOf(time.Now().In(dbtime.LoadLocation("Asia/Jakarta")))
}

func ymd(d time.Time) string { return d.Format(dbtime.DateLayout) }

func setup(t *testing.T) (*fiber.App, string, uuid.UUID, uuid.UUID) {
	db := dbtest.Open(t,
		&sectionModel.ClassSectionModel{},
		&studentModel.StudentModel{},
		&assignmentModel.AssignmentModel{},
		&assignmentModel.AssignmentSubmissionModel{},
	)
	school := dbtest.School(t, db, "Test School")
	sec := &sectionModel.ClassSectionModel{
		ClassSectionSchoolID:     school.SchoolID,
		ClassSectionClassName:    "Class 8",
		ClassSectionName:         "A",
		ClassSectionAcademicYear: "2025/2026",
	}
	require.NoError(t, db.Create(sec).Error)
	st := &studentModel.StudentModel{
		StudentSchoolID:    school.SchoolID,
		StudentSectionID:   sec.ClassSectionID,
		StudentAdmissionNo: "S-1",
		StudentFullName:    "Fajar",
		StudentGender:      studentModel.GenderMale,
		StudentEnrolledAt:  today(),
		StudentIsActive:    true,
	}
	require.NoError(t, db.Create(st).Error)

	app := dbtest.TenantApp(db, func(r fiber.Router) { assignmentRoute.AssignmentAdminRoutes(r, db) })
	return app, "/api/a/" + school.SchoolID.String(), sec.ClassSectionID, st.StudentID
}

func create(t *testing.T, app *fiber.App, base string, section uuid.UUID, assigned, due time.Time) string {
	status, body := dbtest.Do(t, app, http.MethodPost, base+"/assignments", map[string]any{
		"assignment_section_id":    section.String(),
		"assignment_subject":       "Biology",
		"assignment_title":         "Cell diagram",
		"assignment_assigned_date": ymd(assigned),
		"assignment_due_date":      ymd(due),
		"assignment_total_marks":   20,
		"assignment_attachment_links": []map[string]string{
			{"label": "Worksheet", "url": "https://example.com/cells.pdf"},
		},
	})
	require.Equal(t, http.StatusCreated, status, body)
	return body.Data()["assignment_id"].(string)
}

func TestAssignment_StatusAndFilter(t *testing.T) {
	app, base, sec, _ := setup(t)
	now := today()

	closedID := create(t, app, base, sec, now.AddDate(0, 0, -10), now.AddDate(0, 0, -1))
	create(t, app, base, sec, now.AddDate(0, 0, -1), now.AddDate(0, 0, 5))
	create(t, app, base, sec, now.AddDate(0, 0, 3), now.AddDate(0, 0, 9))

	status, body := dbtest.Do(t, app, http.MethodGet, base+"/assignments/"+closedID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "closed", body.Data()["assignment_status"])
	links := body.Data()["assignment_attachment_links"].([]any)
	require.Len(t, links, 1)
	assert.Equal(t, "Worksheet", links[0].(map[string]any)["label"])

	for status, want := range map[string]int{"open": 1, "upcoming": 1, "closed": 1} {
		code, body := dbtest.Do(t, app, http.MethodGet, base+"/assignments?status="+status, nil)
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, body.List(), want, status)
	}

	code, _ := dbtest.Do(t, app, http.MethodGet, base+"/assignments?status=late", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAssignment_DueBeforeAssigned(t *testing.T) {
	app, base, sec, _ := setup(t)
	now := today()

	status, body := dbtest.Do(t, app, http.MethodPost, base+"/assignments", map[string]any{
		"assignment_section_id":    sec.String(),
		"assignment_subject":       "Biology",
		"assignment_title":         "Backwards",
		"assignment_assigned_date": ymd(now),
		"assignment_due_date":      ymd(now.AddDate(0, 0, -1)),
		"assignment_total_marks":   10,
	})
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "assignment_due_date")
}

func TestAssignment_SubmitGradeResubmit(t *testing.T) {
	app, base, sec, student := setup(t)
	now := today()
	id := create(t, app, base, sec, now.AddDate(0, 0, -10), now.AddDate(0, 0, -1))

	status, body := dbtest.Do(t, app, http.MethodPost, base+"/assignments/"+id+"/submissions", map[string]any{
		"student_id": student.String(),
		"link":       "https://example.com/fajar.pdf",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, true, body.Data()["submission_is_late"])
	subID := body.Data()["submission_id"].(string)

	status, _ = dbtest.Do(t, app, http.MethodPatch, base+"/assignments/"+id+"/submissions/"+subID+"/grade", map[string]any{"score": 25})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, body = dbtest.Do(t, app, http.MethodPatch, base+"/assignments/"+id+"/submissions/"+subID+"/grade", map[string]any{
		"score":    18,
		"feedback": "Good labels",
	})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 18, body.Data()["submission_score"])

	status, body = dbtest.Do(t, app, http.MethodPost, base+"/assignments/"+id+"/submissions", map[string]any{
		"student_id": student.String(),
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, subID, body.Data()["submission_id"])
	assert.Nil(t, body.Data()["submission_score"])

	status, body = dbtest.Do(t, app, http.MethodGet, base+"/assignments/"+id+"/submissions", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.List(), 1)
	assert.Equal(t, "Fajar", body.List()[0].(map[string]any)["submission_student_name"])

	status, _ = dbtest.Do(t, app, http.MethodPost, base+"/assignments/"+id+"/submissions", map[string]any{
		"student_id": uuid.NewString(),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}
