package service_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assessmentModel "schoolku_backend/internals/features/academics/assessments/model"
	attModel "schoolku_backend/internals/features/academics/attendance/model"
	sectionModel "schoolku_backend/internals/features/academics/sections/model"
	studentModel "schoolku_backend/internals/features/academics/students/model"
	feeModel "schoolku_backend/internals/features/finance/fees/model"
	"schoolku_backend/internals/features/reports/service"
	"schoolku_backend/internals/helpers/dbtime"
)

func day(s string) time.Time {
	d, err := dbtime.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func student(name string, section uuid.UUID, active bool) studentModel.StudentModel {
	return studentModel.StudentModel{
		StudentID:        uuid.New(),
		StudentSectionID: section,
		StudentFullName:  name,
		StudentIsActive:  active,
	}
}

func mark(st studentModel.StudentModel, date string, s attModel.Status) attModel.AttendanceRecordModel {
	return attModel.AttendanceRecordModel{
		AttendanceStudentID: st.StudentID,
		AttendanceSectionID: st.StudentSectionID,
		AttendanceDate:      day(date),
		AttendanceStatus:    s,
	}
}

func TestBuildAttendanceReport(t *testing.T) {
	sec := uuid.New()
	ayu := student("Ayu", sec, true)
	bima := student("Bima", sec, true)
	stranger := student("Nobody", sec, true)
	w := dbtime.Window{From: day("2025-10-06"), To: day("2025-10-10")}

	rep := service.BuildAttendanceReport(
		[]studentModel.StudentModel{ayu, bima},
		[]attModel.AttendanceRecordModel{
			mark(ayu, "2025-10-06", attModel.StatusPresent),
			mark(ayu, "2025-10-07", attModel.StatusLate),
			mark(ayu, "2025-10-08", attModel.StatusAbsent),
			mark(bima, "2025-10-06", attModel.StatusExcused),
			mark(stranger, "2025-10-06", attModel.StatusPresent),
			mark(ayu, "2025-10-13", attModel.StatusPresent),
		},
		w,
	)

	require.Len(t, rep.Students, 2)
	assert.Equal(t, "Ayu", rep.Students[0].StudentName)
	assert.Equal(t, 3, rep.Students[0].TotalDays)
	assert.Equal(t, 2, rep.Students[0].PresentDays)
	assert.Equal(t, 66.67, rep.Students[0].Percentage)
	assert.Equal(t, 1, rep.Students[1].Excused)
	assert.Equal(t, 0.0, rep.Students[1].Percentage)

	assert.Equal(t, 4, rep.Overall.TotalDays)
	require.Len(t, rep.Breakdown, 4)
	for i, want := range []string{"present", "late", "excused", "absent"} {
		assert.Equal(t, want, rep.Breakdown[i].Status)
		assert.Equal(t, 1, rep.Breakdown[i].Count)
		assert.Equal(t, 25.0, rep.Breakdown[i].Share)
	}

	require.Len(t, rep.Trend, 3)
	assert.Equal(t, "2025-10-06", rep.Trend[0].Date)
	assert.Equal(t, 1, rep.Trend[0].Present)
	assert.Equal(t, 2, rep.Trend[0].Total)
	assert.Equal(t, 50.0, rep.Trend[0].Percentage)
}

func TestBuildAttendanceReport_NoRecords(t *testing.T) {
	w := dbtime.Window{From: day("2025-10-06"), To: day("2025-10-06")}
	rep := service.BuildAttendanceReport(nil, nil, w)

	assert.Empty(t, rep.Students)
	assert.Empty(t, rep.Trend)
	for _, b := range rep.Breakdown {
		assert.Equal(t, 0.0, b.Share)
	}
}

func due(st studentModel.StudentModel, date string, total, discount, paid int64) feeModel.StudentFeeModel {
	return feeModel.StudentFeeModel{
		StudentFeeID:          uuid.New(),
		StudentFeeStudentID:   st.StudentID,
		StudentFeePeriodLabel: date[:7],
		StudentFeeDueDate:     day(date),
		StudentFeeTotalAmount: total,
		StudentFeeDiscount:    discount,
		StudentFeePaidAmount:  paid,
	}
}

func pay(d feeModel.StudentFeeModel, amount int64, at time.Time) feeModel.FeePaymentModel {
	return feeModel.FeePaymentModel{
		FeePaymentID:           uuid.New(),
		FeePaymentStudentFeeID: d.StudentFeeID,
		FeePaymentStudentID:    d.StudentFeeStudentID,
		FeePaymentAmount:       amount,
		FeePaymentMethod:       feeModel.MethodCash,
		FeePaymentPaidAt:       at,
	}
}

func TestBuildFeeReport(t *testing.T) {
	sec := uuid.New()
	bima := student("Bima", sec, true)
	ayu := student("Ayu", sec, true)
	citra := student("Citra", sec, true)

	ayuSep := due(ayu, "2025-09-05", 100000, 0, 100000)
	ayuOct := due(ayu, "2025-10-05", 100000, 10000, 0)
	bimaSep := due(bima, "2025-09-05", 100000, 0, 40000)

	w := dbtime.Window{From: day("2025-09-01"), To: day("2025-10-31")}
	loc := dbtime.LoadLocation("Asia/Jakarta")
	rep := service.BuildFeeReport(
		[]studentModel.StudentModel{bima, ayu, citra},
		[]feeModel.StudentFeeModel{ayuSep, ayuOct, bimaSep},
		[]feeModel.FeePaymentModel{
			pay(bimaSep, 40000, time.Date(2025, 9, 30, 18, 0, 0, 0, time.UTC)),
			pay(ayuSep, 100000, time.Date(2025, 9, 3, 2, 0, 0, 0, time.UTC)),
			pay(ayuSep, 1, time.Date(2025, 8, 20, 2, 0, 0, 0, time.UTC)),
		},
		w, day("2025-10-14"), loc,
	)

	require.Len(t, rep.Students, 2)
	a, b := rep.Students[0], rep.Students[1]
	assert.Equal(t, "Ayu", a.StudentName)
	assert.Equal(t, 2, a.Dues)
	assert.Equal(t, 1, a.Overdue)
	assert.Equal(t, int64(90000), a.Pending)
	assert.Equal(t, "partial", a.Status)
	require.Len(t, a.Payments, 2)
	assert.Equal(t, int64(1), a.Payments[0].Amount)
	assert.Equal(t, "2025-09", a.Payments[1].Period)

	assert.Equal(t, "Bima", b.StudentName)
	assert.Equal(t, int64(60000), b.Pending)
	assert.Equal(t, 1, b.Overdue)

	assert.Equal(t, service.FeeTotals{
		Total:          300000,
		Discount:       10000,
		Paid:           140000,
		Pending:        150000,
		CollectionRate: 48.28,
	}, rep.Totals)
	assert.Equal(t, service.StatusCounts{Paid: 1, Pending: 1, Partial: 1, Overdue: 2}, rep.Breakdown)

	require.Len(t, rep.Trend, 2)
	assert.Equal(t, service.CollectionPoint{Month: "2025-09", Amount: 100000, Count: 1}, rep.Trend[0])
	assert.Equal(t, service.CollectionPoint{Month: "2025-10", Amount: 40000, Count: 1}, rep.Trend[1])
}

func TestCollectionRate(t *testing.T) {
	cases := []struct {
		name                  string
		total, discount, paid int64
		want                  float64
	}{
		{"nothing billed", 0, 0, 0, 0},
		{"fully discounted", 1000, 1000, 0, 0},
		{"half", 1000, 0, 500, 50},
		{"discount shrinks base", 1000, 200, 400, 50},
		{"a third", 300, 0, 100, 33.33},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, service.CollectionRate(tc.total, tc.discount, tc.paid))
		})
	}
}

func TestBuildClassReport(t *testing.T) {
	secA := sectionModel.ClassSectionModel{ClassSectionID: uuid.New(), ClassSectionClassName: "Class 5", ClassSectionName: "B", ClassSectionAcademicYear: "2025/2026"}
	secB := sectionModel.ClassSectionModel{ClassSectionID: uuid.New(), ClassSectionClassName: "Class 5", ClassSectionName: "A", ClassSectionAcademicYear: "2025/2026"}
	ayu := student("Ayu", secA.ClassSectionID, true)
	dodi := student("Dodi", secA.ClassSectionID, false)
	citra := student("Citra", secB.ClassSectionID, true)

	quiz := assessmentModel.AssessmentModel{AssessmentID: uuid.New(), AssessmentSectionID: secA.ClassSectionID, AssessmentTotalMarks: 50}

	rows := service.BuildClassReport(service.ClassInputs{
		Sections: []sectionModel.ClassSectionModel{secA, secB},
		Students: []studentModel.StudentModel{ayu, dodi, citra},
		Attendance: []attModel.AttendanceRecordModel{
			mark(ayu, "2025-10-06", attModel.StatusPresent),
			mark(ayu, "2025-10-07", attModel.StatusAbsent),
			mark(dodi, "2025-10-06", attModel.StatusLate),
		},
		Assessments: []assessmentModel.AssessmentModel{quiz},
		Results: []assessmentModel.AssessmentResultModel{
			{AssessmentResultAssessmentID: quiz.AssessmentID, AssessmentResultStudentID: ayu.StudentID, AssessmentResultMarksObtained: 40},
			{AssessmentResultAssessmentID: quiz.AssessmentID, AssessmentResultStudentID: dodi.StudentID, AssessmentResultMarksObtained: 35},
			{AssessmentResultAssessmentID: uuid.New(), AssessmentResultStudentID: ayu.StudentID, AssessmentResultMarksObtained: 10},
		},
		Dues: []feeModel.StudentFeeModel{
			due(ayu, "2025-09-05", 100, 0, 50),
			due(citra, "2025-09-05", 200, 100, 100),
		},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "Class 5 - A", rows[0].Label)
	assert.Equal(t, 1, rows[0].StudentCount)
	assert.Equal(t, 0, rows[0].AttendanceRecords)
	assert.Equal(t, 0.0, rows[0].AttendancePercentage)
	assert.Equal(t, 100.0, rows[0].FeeCollectionRate)

	assert.Equal(t, "Class 5 - B", rows[1].Label)
	assert.Equal(t, 1, rows[1].StudentCount)
	assert.Equal(t, 3, rows[1].AttendanceRecords)
	assert.Equal(t, 66.67, rows[1].AttendancePercentage)
	assert.Equal(t, 1, rows[1].Assessments)
	assert.Equal(t, 75.0, rows[1].AssessmentAverage)
	assert.Equal(t, 50.0, rows[1].FeeCollectionRate)
}

func TestWriteCSV(t *testing.T) {
	sec := uuid.New()
	ayu := student("Ayu, S.", sec, true)
	w := dbtime.Window{From: day("2025-10-06"), To: day("2025-10-06")}
	rep := service.BuildAttendanceReport(
		[]studentModel.StudentModel{ayu},
		[]attModel.AttendanceRecordModel{mark(ayu, "2025-10-06", attModel.StatusPresent)},
		w,
	)

	var buf bytes.Buffer
	require.NoError(t, service.WriteCSV(&buf, rep.Table()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "student_id,student_name,present,absent,late,excused,total_days,percentage", lines[0])
	assert.Equal(t, ayu.StudentID.String()+`,"Ayu, S.",1,0,0,0,1,100.00`, lines[1])
}
