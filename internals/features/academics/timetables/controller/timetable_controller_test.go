package controller_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/databases/dbtest"
	sectionModel "schoolku_backend/internals/features/academics/sections/model"
	timetableModel "schoolku_backend/internals/features/academics/timetables/model"
	timetableRoute "schoolku_backend/internals/features/academics/timetables/route"
	"schoolku_backend/internals/features/academics/timetables/service"
)

func setup(t *testing.T) (*fiber.App, string, []uuid.UUID) {
	db := dbtest.Open(t, &sectionModel.ClassSectionModel{}, &timetableModel.TimetableSlotModel{})
	school := dbtest.School(t, db, "Test School")

	var sections []uuid.UUID
	for _, name := range []string{"A", "B"} {
		s := &sectionModel.ClassSectionModel{
			ClassSectionSchoolID:     school.SchoolID,
			ClassSectionClassName:    "Class 7",
			ClassSectionName:         name,
			ClassSectionAcademicYear: "2025/2026",
		}
		require.NoError(t, db.Create(s).Error)
		sections = append(sections, s.ClassSectionID)
	}

	window, err := service.NewDayWindow("06:00", "18:00")
	require.NoError(t, err)
	app := dbtest.TenantApp(db, func(r fiber.Router) { timetableRoute.TimetableAdminRoutes(r, db, window) })
	return app, "/api/a/" + school.SchoolID.String(), sections
}

func slot(section uuid.UUID, staff *uuid.UUID, day int, start, end string) map[string]any {
	m := map[string]any{
		"timetable_slot_section_id":  section.String(),
		"timetable_slot_day_of_week": day,
		"timetable_slot_start_time":  start,
		"timetable_slot_end_time":    end,
		"timetable_slot_subject":     "History",
	}
	if staff != nil {
		m["timetable_slot_staff_id"] = staff.String()
	}
	return m
}

func TestTimetable_SectionOverlap(t *testing.T) {
	app, base, secs := setup(t)

	status, body := dbtest.Do(t, app, http.MethodPost, base+"/timetables", slot(secs[0], nil, 1, "08:00", "09:00"))
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "08:00", body.Data()["timetable_slot_start_time"])

	status, _ = dbtest.Do(t, app, http.MethodPost, base+"/timetables", slot(secs[0], nil, 1, "08:30", "09:30"))
	assert.Equal(t, http.StatusConflict, status)

	status, _ = dbtest.Do(t, app, http.MethodPost, base+"/timetables", slot(secs[0], nil, 1, "09:00", "10:00"))
	assert.Equal(t, http.StatusCreated, status, "back-to-back is allowed")

	status, _ = dbtest.Do(t, app, http.MethodPost, base+"/timetables", slot(secs[0], nil, 2, "08:30", "09:30"))
	assert.Equal(t, http.StatusCreated, status, "other day")

	status, _ = dbtest.Do(t, app, http.MethodPost, base+"/timetables", slot(secs[1], nil, 1, "08:30", "09:30"))
	assert.Equal(t, http.StatusCreated, status, "other section")
}

func TestTimetable_TeacherOverlapAcrossSections(t *testing.T) {
	app, base, secs := setup(t)
	teacher := uuid.New()

	status, _ := dbtest.Do(t, app, http.MethodPost, base+"/timetables", slot(secs[0], &teacher, 3, "10:00", "11:00"))
	require.Equal(t, http.StatusCreated, status)

	status, body := dbtest.Do(t, app, http.MethodPost, base+"/timetables", slot(secs[1], &teacher, 3, "10:30", "11:30"))
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body["message"], "teacher")
}

func TestTimetable_BoundsAndUpdate(t *testing.T) {
	app, base, secs := setup(t)

	status, body := dbtest.Do(t, app, http.MethodPost, base+"/timetables", slot(secs[0], nil, 4, "17:30", "18:30"))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "timetable_slot_start_time")

	status, _ = dbtest.Do(t, app, http.MethodPost, base+"/timetables", slot(secs[0], nil, 4, "11:00", "10:00"))
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = dbtest.Do(t, app, http.MethodPost, base+"/timetables", slot(secs[0], nil, 4, "7:00", "8:00"))
	assert.Equal(t, http.StatusUnprocessableEntity, status, "HH:MM only")

	status, body = dbtest.Do(t, app, http.MethodPost, base+"/timetables", slot(secs[0], nil, 4, "08:00", "09:00"))
	require.Equal(t, http.StatusCreated, status)
	id := body.Data()["timetable_slot_id"].(string)

	// moving within its own span does not clash with itself
	status, body = dbtest.Do(t, app, http.MethodPatch, base+"/timetables/"+id, map[string]any{"timetable_slot_end_time": "09:30"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "09:30", body.Data()["timetable_slot_end_time"])
}

func TestTimetable_Weekly(t *testing.T) {
	app, base, secs := setup(t)
	for _, s := range []map[string]any{
		slot(secs[0], nil, 1, "10:00", "11:00"),
		slot(secs[0], nil, 1, "07:00", "08:00"),
		slot(secs[0], nil, 5, "07:00", "08:00"),
	} {
		status, _ := dbtest.Do(t, app, http.MethodPost, base+"/timetables", s)
		require.Equal(t, http.StatusCreated, status)
	}

	status, _ := dbtest.Do(t, app, http.MethodGet, base+"/timetables/weekly", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := dbtest.Do(t, app, http.MethodGet, base+"/timetables/weekly?section_id="+secs[0].String(), nil)
	require.Equal(t, http.StatusOK, status)
	days := body.List()
	require.Len(t, days, 7)
	monday := days[0].(map[string]any)
	slots := monday["slots"].([]any)
	require.Len(t, slots, 2)
	assert.Equal(t, "07:00", slots[0].(map[string]any)["timetable_slot_start_time"])
}
