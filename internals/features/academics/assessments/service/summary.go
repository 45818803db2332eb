package service

import helper "schoolku_backend/internals/helpers"

// GradeDistribution counts results per percentage band.
type GradeDistribution struct {
	A int `json:"A"` // >= 90
	B int `json:"B"` // >= 80
	C int `json:"C"` // >= 70
	D int `json:"D"` // >= 60
	E int `json:"E"`
}

type Summary struct {
	Count             int               `json:"count"`
	Average           float64           `json:"average"`
	AveragePercentage float64           `json:"average_percentage"`
	Highest           float64           `json:"highest"`
	Lowest            float64           `json:"lowest"`
	PassCount         int               `json:"pass_count"`
	PassRate          float64           `json:"pass_rate"`
	Grades            GradeDistribution `json:"grades"`
}

// Grade maps a percentage to its letter band.
func Grade(pct float64) string {
	switch {
	case pct >= 90:
		return "A"
	case pct >= 80:
		return "B"
	case pct >= 70:
		return "C"
	case pct >= 60:
		return "D"
	default:
		return "E"
	}
}

// Summarize rolls up marks in one pass. A mark passes when it reaches passingMarks.
func Summarize(totalMarks, passingMarks float64, marks []float64) Summary {
	var s Summary
	if len(marks) == 0 {
		return s
	}

	var sum float64
	s.Highest, s.Lowest = marks[0], marks[0]
	for _, m := range marks {
		sum += m
		if m > s.Highest {
			s.Highest = m
		}
		if m < s.Lowest {
			s.Lowest = m
		}
		if m >= passingMarks {
			s.PassCount++
		}
		switch Grade(percentOf(m, totalMarks)) {
		case "A":
			s.Grades.A++
		case "B":
			s.Grades.B++
		case "C":
			s.Grades.C++
		case "D":
			s.Grades.D++
		default:
			s.Grades.E++
		}
	}

	s.Count = len(marks)
	s.Average = helper.Round2(sum / float64(s.Count))
	s.AveragePercentage = helper.Percent(sum, totalMarks*float64(s.Count))
	s.PassRate = helper.Percent(float64(s.PassCount), float64(s.Count))
	return s
}

func percentOf(m, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return m / total * 100
}
