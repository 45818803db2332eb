package dbtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	helper "schoolku_backend/internals/helpers"
	scope "schoolku_backend/internals/middlewares/features"
)

// TenantApp mounts routes under /api/a/:school_id behind the school scope.
func TenantApp(db *gorm.DB, mount func(r fiber.Router)) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	mount(app.Group("/api/a/:school_id", scope.UseSchoolScope(db)))
	return app
}

// Body is a decoded response envelope.
type Body map[string]any

func (b Body) Data() map[string]any {
	m, _ := b["data"].(map[string]any)
	return m
}

func (b Body) List() []any {
	l, _ := b["data"].([]any)
	return l
}

// Do sends a JSON request and decodes the envelope.
func Do(t *testing.T, app *fiber.App, method, path string, payload any) (int, Body) {
	t.Helper()

	var rdr io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	body := Body{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp.StatusCode, body
}
