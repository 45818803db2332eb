package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/features/academics/timetables/model"
	"schoolku_backend/internals/helpers/dbtime"
)

func slot(day int, start, end string) model.TimetableSlotModel {
	return model.TimetableSlotModel{
		TimetableSlotID:        uuid.New(),
		TimetableSlotDayOfWeek: day,
		TimetableSlotStartTime: dbtime.MustParse(start),
		TimetableSlotEndTime:   dbtime.MustParse(end),
	}
}

func TestDayWindow_CheckBounds(t *testing.T) {
	w, err := NewDayWindow("06:00", "18:00")
	require.NoError(t, err)

	tests := []struct {
		name       string
		start, end string
		want       error
	}{
		{"inside", "07:00", "07:45", nil},
		{"whole day", "06:00", "18:00", nil},
		{"equal", "08:00", "08:00", ErrStartNotBeforeEnd},
		{"inverted", "09:00", "08:00", ErrStartNotBeforeEnd},
		{"too early", "05:30", "06:30", ErrOutsideSchoolDay},
		{"too late", "17:30", "18:30", ErrOutsideSchoolDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.CheckBounds(dbtime.MustParse(tt.start), dbtime.MustParse(tt.end))
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewDayWindow_Invalid(t *testing.T) {
	_, err := NewDayWindow("18:00", "06:00")
	assert.Error(t, err)
	_, err = NewDayWindow("6am", "18:00")
	assert.Error(t, err)
}

func TestOverlaps(t *testing.T) {
	p := dbtime.MustParse
	assert.True(t, Overlaps(p("08:00"), p("09:00"), p("08:30"), p("09:30")))
	assert.True(t, Overlaps(p("08:00"), p("10:00"), p("08:30"), p("09:00")))
	assert.False(t, Overlaps(p("08:00"), p("09:00"), p("09:00"), p("10:00")), "back-to-back")
	assert.False(t, Overlaps(p("10:00"), p("11:00"), p("08:00"), p("09:00")))
}

func TestClash(t *testing.T) {
	existing := []model.TimetableSlotModel{slot(1, "08:00", "09:00"), slot(2, "09:00", "10:00")}

	assert.Nil(t, Clash(slot(1, "09:00", "10:00"), existing))
	assert.Nil(t, Clash(slot(3, "09:00", "10:00"), existing))

	got := Clash(slot(2, "09:30", "10:30"), existing)
	require.NotNil(t, got)
	assert.Equal(t, existing[1].TimetableSlotID, got.TimetableSlotID)

	// a slot never clashes with itself
	self := existing[0]
	assert.Nil(t, Clash(self, existing))
}

func TestWeekly(t *testing.T) {
	days := Weekly([]model.TimetableSlotModel{
		slot(1, "10:00", "11:00"),
		slot(1, "08:00", "09:00"),
		slot(5, "07:00", "08:00"),
	})
	require.Len(t, days, 7)
	assert.Equal(t, "Monday", days[0].DayName)
	require.Len(t, days[0].Slots, 2)
	assert.Equal(t, "08:00", days[0].Slots[0].TimetableSlotStartTime.String())
	assert.Len(t, days[4].Slots, 1)
	assert.Empty(t, days[6].Slots)
}
