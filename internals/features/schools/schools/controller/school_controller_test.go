package controller_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/databases/dbtest"
	schoolRoute "schoolku_backend/internals/features/schools/schools/route"
)

func TestSchoolBootstrapAndProfile(t *testing.T) {
	db := dbtest.Open(t)
	app := dbtest.TenantApp(db, func(r fiber.Router) { schoolRoute.SchoolAdminRoutes(r, db) })
	schoolRoute.SchoolPublicRoutes(app.Group("/api/public"), db)

	code, body := dbtest.Do(t, app, http.MethodPost, "/api/public/schools", map[string]any{
		"school_name": "SMA Harapan Bangsa",
	})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "sma-harapan-bangsa", body.Data()["school_slug"])
	assert.Equal(t, "Asia/Jakarta", body.Data()["school_timezone"])
	id := body.Data()["school_id"].(string)

	code, body = dbtest.Do(t, app, http.MethodPost, "/api/public/schools", map[string]any{
		"school_name": "SMA Harapan Bangsa",
	})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "sma-harapan-bangsa-2", body.Data()["school_slug"])

	code, body = dbtest.Do(t, app, http.MethodPost, "/api/public/schools", map[string]any{
		"school_name":  "SM",
		"school_email": "nope",
	})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "school_name")
	assert.Contains(t, errs, "school_email")

	code, body = dbtest.Do(t, app, http.MethodGet, "/api/public/schools?q=harapan", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body.List(), 2)

	code, body = dbtest.Do(t, app, http.MethodGet, "/api/public/schools/sma-harapan-bangsa", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, id, body.Data()["school_id"])

	code, body = dbtest.Do(t, app, http.MethodPatch, "/api/a/"+id+"/profile", map[string]any{
		"school_phone": "022-7301234",
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "022-7301234", body.Data()["school_phone"])

	code, _ = dbtest.Do(t, app, http.MethodGet, "/api/a/"+uuid.NewString()+"/profile", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = dbtest.Do(t, app, http.MethodGet, "/api/a/garbage/profile", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
