package service

import (
	"encoding/csv"
	"io"
	"strconv"

	"schoolku_backend/internals/helpers/dbtime"
)

// Table is a header plus rows ready for CSV.
type Table struct {
	Header []string
	Rows   [][]string
}

func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

func itoa(n int) string     { return strconv.Itoa(n) }
func money(n int64) string  { return strconv.FormatInt(n, 10) }
func pct(f float64) string  { return strconv.FormatFloat(f, 'f', 2, 64) }

// Table flattens the per-student rows.
func (r AttendanceReport) Table() Table {
	t := Table{Header: []string{
		"student_id", "student_name", "present", "absent", "late", "excused", "total_days", "percentage",
	}}
	for _, s := range r.Students {
		t.Rows = append(t.Rows, []string{
			s.StudentID.String(), s.StudentName,
			itoa(s.Present), itoa(s.Absent), itoa(s.Late), itoa(s.Excused),
			itoa(s.TotalDays), pct(s.Percentage),
		})
	}
	return t
}

// Table flattens the per-student rows; payment history is summarised as a count and last date.
func (r FeeReport) Table() Table {
	t := Table{Header: []string{
		"student_id", "student_name", "dues", "overdue", "total", "discount", "paid", "pending", "status", "payments", "last_paid_at",
	}}
	for _, s := range r.Students {
		last := ""
		if n := len(s.Payments); n > 0 {
			last = s.Payments[n-1].PaidAt.Format(dbtime.DateLayout)
		}
		t.Rows = append(t.Rows, []string{
			s.StudentID.String(), s.StudentName,
			itoa(s.Dues), itoa(s.Overdue),
			money(s.Total), money(s.Discount), money(s.Paid), money(s.Pending),
			s.Status, itoa(len(s.Payments)), last,
		})
	}
	return t
}

func ClassTable(rows []ClassRow) Table {
	t := Table{Header: []string{
		"section_id", "label", "academic_year", "student_count", "attendance_percentage", "assessment_average_percentage", "fee_collection_rate",
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.SectionID.String(), r.Label, r.AcademicYear, itoa(r.StudentCount),
			pct(r.AttendancePercentage), pct(r.AssessmentAverage), pct(r.FeeCollectionRate),
		})
	}
	return t
}
