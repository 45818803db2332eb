package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrade(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, "A"},
		{90, "A"},
		{89.99, "B"},
		{80, "B"},
		{70, "C"},
		{60, "D"},
		{59.5, "E"},
		{0, "E"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Grade(tt.pct), "pct=%v", tt.pct)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(50, 20, []float64{45, 40, 35, 30, 10})

	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 32.0, s.Average)
	assert.Equal(t, 64.0, s.AveragePercentage)
	assert.Equal(t, 45.0, s.Highest)
	assert.Equal(t, 10.0, s.Lowest)
	assert.Equal(t, 4, s.PassCount)
	assert.Equal(t, 80.0, s.PassRate)
	assert.Equal(t, GradeDistribution{A: 1, B: 1, C: 1, D: 1, E: 1}, s.Grades)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(100, 40, nil))
}

func TestSummarize_Rounding(t *testing.T) {
	s := Summarize(3, 2, []float64{1, 2, 2})
	assert.Equal(t, 1.67, s.Average)
	assert.Equal(t, 55.56, s.AveragePercentage)
	assert.Equal(t, 66.67, s.PassRate)
}
