package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(t time.Time) *time.Time { return &t }

func TestResolveWindow(t *testing.T) {
	today := time.Date(2025, 10, 15, 22, 30, 0, 0, time.UTC)

	cases := []struct {
		name     string
		from, to *time.Time
		max      int
		want     Window
		err      error
	}{
		{"defaults", nil, nil, 0, Window{From: d("2025-09-16"), To: d("2025-10-15")}, nil},
		{"explicit to", nil, ptr(d("2025-01-31")), 0, Window{From: d("2025-01-02"), To: d("2025-01-31")}, nil},
		{"both", ptr(d("2025-10-01")), ptr(d("2025-10-01")), 0, Window{From: d("2025-10-01"), To: d("2025-10-01")}, nil},
		{"inverted", ptr(d("2025-10-02")), ptr(d("2025-10-01")), 0, Window{}, ErrWindowInverted},
		{"at max", ptr(d("2025-01-01")), ptr(d("2025-01-31")), 31, Window{From: d("2025-01-01"), To: d("2025-01-31")}, nil},
		{"too long", ptr(d("2025-01-01")), ptr(d("2025-02-01")), 31, Window{}, ErrWindowTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveWindow(tc.from, tc.to, today, 30, tc.max)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWindowDaysAndContains(t *testing.T) {
	w := Window{From: d("2024-02-27"), To: d("2024-03-01")}
	assert.Equal(t, 4, w.Days())
	assert.True(t, w.Contains(time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(d("2024-03-01")))
	assert.False(t, w.Contains(d("2024-03-02")))
	assert.False(t, w.Contains(d("2024-02-26")))
}

func TestWorkingDays(t *testing.T) {
	cases := []struct {
		from, to string
		want     int
	}{
		{"2025-10-13", "2025-10-17", 5}, // Mon..Fri
		{"2025-10-13", "2025-10-19", 5},
		{"2025-10-18", "2025-10-19", 0},
		{"2025-10-17", "2025-10-20", 2},
		{"2025-10-20", "2025-10-13", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, WorkingDays(d(tc.from), d(tc.to)), tc.from+".."+tc.to)
	}
}

func TestClampedDate(t *testing.T) {
	assert.Equal(t, d("2025-02-28"), ClampedDate(2025, time.February, 31))
	assert.Equal(t, d("2024-02-29"), ClampedDate(2024, time.February, 30))
	assert.Equal(t, d("2025-04-30"), ClampedDate(2025, time.April, 31))
	assert.Equal(t, d("2025-04-01"), ClampedDate(2025, time.April, 0))
	assert.Equal(t, d("2025-04-10"), ClampedDate(2025, time.April, 10))
}

func TestDaysLate(t *testing.T) {
	due := d("2025-10-10")
	assert.Equal(t, 0, DaysLate(due, due))
	assert.Equal(t, 0, DaysLate(due, d("2025-10-01")))
	assert.Equal(t, 1, DaysLate(due, time.Date(2025, 10, 11, 1, 0, 0, 0, time.UTC)))
	assert.Equal(t, 31, DaysLate(due, d("2025-11-10")))
}

func TestMonthHelpers(t *testing.T) {
	x := time.Date(2025, 12, 31, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, d("2025-12-01"), MonthStart(x))
	assert.Equal(t, "2025-12", MonthKey(x))
	assert.Equal(t, 29, DaysIn(2024, time.February))
}

func TestParseTod(t *testing.T) {
	tod, err := Parse("07:30")
	require.NoError(t, err)
	assert.Equal(t, 450, tod.Minutes())
	assert.Equal(t, "07:30", tod.String())

	var s Tod
	require.NoError(t, s.Scan("0000-01-01 08:15:00+00:00"))
	assert.Equal(t, "08:15", s.String())

	_, err = Parse("25:00")
	assert.Error(t, err)
}
