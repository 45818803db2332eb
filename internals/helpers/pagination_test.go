package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseQuery(t *testing.T, query string, opt Options) Params {
	t.Helper()
	var got Params
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = ParseFiber(c, "name", "asc", opt)
		return nil
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/"+query, nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	return got
}

func TestParseFiber(t *testing.T) {
	cases := []struct {
		query string
		want  Params
	}{
		{"", Params{Page: 1, PerPage: 25, SortBy: "name", SortOrder: "asc"}},
		{"?page=3&per_page=10&sort_by=created_at&order=DESC", Params{Page: 3, PerPage: 10, SortBy: "created_at", SortOrder: "desc"}},
		{"?limit=5", Params{Page: 1, PerPage: 5, SortBy: "name", SortOrder: "asc"}},
		{"?page=-2&per_page=abc&order=sideways", Params{Page: 1, PerPage: 25, SortBy: "name", SortOrder: "asc"}},
		{"?per_page=5000", Params{Page: 1, PerPage: 200, SortBy: "name", SortOrder: "asc"}},
		{"?per_page=all", Params{Page: 1, PerPage: 25, SortBy: "name", SortOrder: "asc"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseQuery(t, tc.query, DefaultOpts), tc.query)
	}
}

func TestParseFiber_ExportAll(t *testing.T) {
	cases := []struct {
		query string
		want  Params
	}{
		{"?per_page=all&page=4", Params{Page: 1, PerPage: 10_000, SortBy: "name", SortOrder: "asc", All: true}},
		{"?per_page=ALL", Params{Page: 1, PerPage: 10_000, SortBy: "name", SortOrder: "asc", All: true}},
		{"?limit=all", Params{Page: 1, PerPage: 10_000, SortBy: "name", SortOrder: "asc", All: true}},
		{"?per_page=5000", Params{Page: 1, PerPage: 1000, SortBy: "name", SortOrder: "asc"}},
		{"", Params{Page: 1, PerPage: 100, SortBy: "name", SortOrder: "asc"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseQuery(t, tc.query, ExportOpts), tc.query)
	}

	// a preset without a hard cap falls back to MaxPerPage
	p := parseQuery(t, "?per_page=all", Options{DefaultPerPage: 10, MaxPerPage: 300, AllowAll: true})
	assert.True(t, p.All)
	assert.Equal(t, 300, p.PerPage)

	m := BuildMeta(1234, parseQuery(t, "?per_page=all", ExportOpts))
	assert.Equal(t, 1, m.TotalPages)
	assert.False(t, m.HasNext)
}

func TestOrderExpr(t *testing.T) {
	cols := map[string]string{"name": "school_name", "created_at": "school_created_at"}
	assert.Equal(t, "school_created_at DESC", Params{SortBy: "created_at", SortOrder: "desc"}.OrderExpr(cols, "name"))
	assert.Equal(t, "school_name ASC", Params{SortBy: "1; DROP TABLE", SortOrder: "asc"}.OrderExpr(cols, "name"))
}

func TestBuildMeta(t *testing.T) {
	m := BuildMeta(51, Params{Page: 2, PerPage: 25})
	assert.Equal(t, 3, m.TotalPages)
	assert.True(t, m.HasNext)
	assert.True(t, m.HasPrev)
	require.NotNil(t, m.NextPage)
	assert.Equal(t, 3, *m.NextPage)
	assert.Equal(t, 1, *m.PrevPage)

	m = BuildMeta(0, Params{Page: 1, PerPage: 25})
	assert.Equal(t, 0, m.TotalPages)
	assert.False(t, m.HasNext)
	assert.Nil(t, m.PrevPage)
}
