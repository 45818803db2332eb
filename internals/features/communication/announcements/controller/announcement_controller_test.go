package controller_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/databases/dbtest"
	sectionModel "schoolku_backend/internals/features/academics/sections/model"
	annModel "schoolku_backend/internals/features/communication/announcements/model"
	annRoute "schoolku_backend/internals/features/communication/announcements/route"
	"schoolku_backend/internals/helpers/dbtime"
)

func today() time.Time {
	return dbtime.DateOf(time.Now().In(dbtime.LoadLocation("Asia/Jakarta")))
}

func ymd(d time.Time) string { return d.Format(dbtime.DateLayout) }

func setup(t *testing.T) (*fiber.App, string, uuid.UUID) {
	db := dbtest.Open(t, &sectionModel.ClassSectionModel{}, &annModel.AnnouncementModel{})
	school := dbtest.School(t, db, "Test School")
	sec := &sectionModel.ClassSectionModel{
		ClassSectionSchoolID:     school.SchoolID,
		ClassSectionClassName:    "Class 9",
		ClassSectionName:         "B",
		ClassSectionAcademicYear: "2025/2026",
	}
	require.NoError(t, db.Create(sec).Error)
	app := dbtest.TenantApp(db, func(r fiber.Router) { annRoute.AnnouncementAdminRoutes(r, db) })
	return app, "/api/a/" + school.SchoolID.String(), sec.ClassSectionID
}

func post(t *testing.T, app *fiber.App, base string, payload map[string]any) string {
	status, body := dbtest.Do(t, app, http.MethodPost, base+"/announcements", payload)
	require.Equal(t, http.StatusCreated, status, body)
	return body.Data()["announcement_id"].(string)
}

func titles(body dbtest.Body) []string {
	var out []string
	for _, r := range body.List() {
		out = append(out, r.(map[string]any)["announcement_title"].(string))
	}
	return out
}

func TestAnnouncement_OrderingAndFilters(t *testing.T) {
	app, base, sec := setup(t)
	now := today()

	post(t, app, base, map[string]any{
		"announcement_title":        "Old news",
		"announcement_content":      "Sports day happened",
		"announcement_publish_date": ymd(now.AddDate(0, 0, -5)),
		"announcement_expires_at":   ymd(now.AddDate(0, 0, -1)),
	})
	post(t, app, base, map[string]any{
		"announcement_title":        "Fresh news",
		"announcement_content":      "Library reopens",
		"announcement_publish_date": ymd(now),
	})
	post(t, app, base, map[string]any{
		"announcement_title":        "Pinned rule",
		"announcement_content":      "Uniform policy",
		"announcement_publish_date": ymd(now.AddDate(0, 0, -3)),
		"announcement_is_pinned":    true,
	})
	post(t, app, base, map[string]any{
		"announcement_title":        "Section trip",
		"announcement_content":      "Museum visit",
		"announcement_audience":     "parents",
		"announcement_section_id":   sec.String(),
		"announcement_publish_date": ymd(now.AddDate(0, 0, -1)),
	})
	post(t, app, base, map[string]any{
		"announcement_title":        "Next week",
		"announcement_content":      "Exams begin",
		"announcement_publish_date": ymd(now.AddDate(0, 0, 7)),
	})

	status, body := dbtest.Do(t, app, http.MethodGet, base+"/announcements", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, []string{"Pinned rule", "Next week", "Fresh news", "Section trip", "Old news"}, titles(body))

	status, body = dbtest.Do(t, app, http.MethodGet, base+"/announcements?active_only=true", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, []string{"Pinned rule", "Fresh news", "Section trip"}, titles(body))
	for _, r := range body.List() {
		assert.Equal(t, true, r.(map[string]any)["announcement_is_live"])
	}

	status, body = dbtest.Do(t, app, http.MethodGet,
		base+"/announcements?section_id="+sec.String()+"&include_global=false", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, []string{"Section trip"}, titles(body))

	status, body = dbtest.Do(t, app, http.MethodGet, base+"/announcements?section_id="+sec.String(), nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, body.List(), 5)

	status, body = dbtest.Do(t, app, http.MethodGet, base+"/announcements?audience=parents", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, []string{"Section trip"}, titles(body))

	status, _ = dbtest.Do(t, app, http.MethodGet, base+"/announcements?audience=aliens", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAnnouncement_Validation(t *testing.T) {
	app, base, _ := setup(t)

	status, body := dbtest.Do(t, app, http.MethodPost, base+"/announcements", map[string]any{
		"announcement_title":        "Backwards",
		"announcement_content":      "Expires before it starts",
		"announcement_publish_date": "2025-05-10",
		"announcement_expires_at":   "2025-05-01",
	})
	require.Equal(t, http.StatusUnprocessableEntity, status, body)
	assert.Contains(t, body["errors"], "announcement_expires_at")

	status, _ = dbtest.Do(t, app, http.MethodPost, base+"/announcements", map[string]any{
		"announcement_title":      "Ghost section",
		"announcement_content":    "Nobody reads this",
		"announcement_section_id": uuid.NewString(),
	})
	assert.Equal(t, http.StatusNotFound, status)

	id := post(t, app, base, map[string]any{
		"announcement_title":   "Holiday",
		"announcement_content": "School closed Friday",
	})
	status, body = dbtest.Do(t, app, http.MethodPatch, base+"/announcements/"+id, map[string]any{
		"announcement_expires_at": "2000-01-01",
	})
	require.Equal(t, http.StatusUnprocessableEntity, status, body)

	status, body = dbtest.Do(t, app, http.MethodPatch, base+"/announcements/"+id, map[string]any{
		"announcement_is_pinned": true,
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body.Data()["announcement_is_pinned"])

	status, _ = dbtest.Do(t, app, http.MethodDelete, base+"/announcements/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = dbtest.Do(t, app, http.MethodGet, base+"/announcements/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAnnouncement_MultipartCreate(t *testing.T) {
	app, base, sec := setup(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("announcement_title", "Form post"))
	require.NoError(t, w.WriteField("announcement_content", "Sent from the dialog form"))
	require.NoError(t, w.WriteField("announcement_audience", "students"))
	require.NoError(t, w.WriteField("announcement_section_id", sec.String()))
	require.NoError(t, w.WriteField("announcement_is_pinned", "true"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, base+"/announcements", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dbtest.Body
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	data := body.Data()
	assert.Equal(t, "students", data["announcement_audience"])
	assert.Equal(t, sec.String(), data["announcement_section_id"])
	assert.Equal(t, true, data["announcement_is_pinned"])
	assert.Equal(t, ymd(today()), data["announcement_publish_date"])
}
