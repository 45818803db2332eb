package controller_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/databases/dbtest"
	assessmentModel "schoolku_backend/internals/features/academics/assessments/model"
	attModel "schoolku_backend/internals/features/academics/attendance/model"
	sectionModel "schoolku_backend/internals/features/academics/sections/model"
	studentModel "schoolku_backend/internals/features/academics/students/model"
	feeModel "schoolku_backend/internals/features/finance/fees/model"
	bookModel "schoolku_backend/internals/features/library/books/model"
	loanModel "schoolku_backend/internals/features/library/circulations/model"
	reportRoute "schoolku_backend/internals/features/reports/route"
	leaveModel "schoolku_backend/internals/features/staff/leaves/model"
	staffModel "schoolku_backend/internals/features/staff/members/model"
	"schoolku_backend/internals/helpers/dbtime"
)

type fixture struct {
	app     *fiber.App
	base    string
	section string
	ayu     string
	today   time.Time
}

func setup(t *testing.T) fixture {
	db := dbtest.Open(t,
		&sectionModel.ClassSectionModel{},
		&studentModel.StudentModel{},
		&attModel.AttendanceRecordModel{},
		&assessmentModel.AssessmentModel{},
		&assessmentModel.AssessmentResultModel{},
		&feeModel.StudentFeeModel{},
		&feeModel.FeePaymentModel{},
		&staffModel.StaffModel{},
		&leaveModel.StaffLeaveModel{},
		&bookModel.LibraryBookModel{},
		&loanModel.LibraryLoanModel{},
	)
	school := dbtest.School(t, db, "Test School")
	sid := school.SchoolID
	today := dbtime.DateOf(time.Now().In(dbtime.LoadLocation("Asia/Jakarta")))

	sec := &sectionModel.ClassSectionModel{
		ClassSectionSchoolID:     sid,
		ClassSectionClassName:    "Class 5",
		ClassSectionName:         "A",
		ClassSectionAcademicYear: "2025/2026",
	}
	require.NoError(t, db.Create(sec).Error)

	var students []*studentModel.StudentModel
	for i, name := range []string{"Bima", "Ayu"} {
		st := &studentModel.StudentModel{
			StudentSchoolID:    sid,
			StudentSectionID:   sec.ClassSectionID,
			StudentAdmissionNo: "ADM-" + string(rune('1'+i)),
			StudentFullName:    name,
			StudentGender:      studentModel.GenderFemale,
			StudentEnrolledAt:  today,
			StudentIsActive:    true,
		}
		require.NoError(t, db.Create(st).Error)
		students = append(students, st)
	}
	bima, ayu := students[0], students[1]

	for _, r := range []attModel.AttendanceRecordModel{
		{AttendanceStudentID: ayu.StudentID, AttendanceDate: today, AttendanceStatus: attModel.StatusPresent},
		{AttendanceStudentID: bima.StudentID, AttendanceDate: today, AttendanceStatus: attModel.StatusAbsent},
		{AttendanceStudentID: ayu.StudentID, AttendanceDate: today.AddDate(0, 0, -1), AttendanceStatus: attModel.StatusLate},
	} {
		r.AttendanceSchoolID = sid
		r.AttendanceSectionID = sec.ClassSectionID
		require.NoError(t, db.Create(&r).Error)
	}

	quiz := &assessmentModel.AssessmentModel{
		AssessmentSchoolID:     sid,
		AssessmentSectionID:    sec.ClassSectionID,
		AssessmentSubject:      "Math",
		AssessmentTitle:        "Quiz 1",
		AssessmentKind:         "quiz",
		AssessmentDate:         today,
		AssessmentTotalMarks:   100,
		AssessmentPassingMarks: 60,
	}
	require.NoError(t, db.Create(quiz).Error)
	for _, m := range []float64{80, 60} {
		require.NoError(t, db.Create(&assessmentModel.AssessmentResultModel{
			AssessmentResultSchoolID:      sid,
			AssessmentResultAssessmentID:  quiz.AssessmentID,
			AssessmentResultStudentID:     uuid.New(),
			AssessmentResultMarksObtained: m,
		}).Error)
	}

	structure := uuid.New()
	open := &feeModel.StudentFeeModel{
		StudentFeeSchoolID:    sid,
		StudentFeeStudentID:   ayu.StudentID,
		StudentFeeStructureID: structure,
		StudentFeePeriodLabel: "Tuition",
		StudentFeeDueDate:     today.AddDate(0, 0, -1),
		StudentFeeTotalAmount: 100000,
		StudentFeePaidAmount:  25000,
	}
	settled := &feeModel.StudentFeeModel{
		StudentFeeSchoolID:    sid,
		StudentFeeStudentID:   bima.StudentID,
		StudentFeeStructureID: structure,
		StudentFeePeriodLabel: "Tuition",
		StudentFeeDueDate:     today.AddDate(0, 0, -1),
		StudentFeeTotalAmount: 100000,
		StudentFeeDiscount:    20000,
		StudentFeePaidAmount:  80000,
	}
	require.NoError(t, db.Create(open).Error)
	require.NoError(t, db.Create(settled).Error)
	for _, p := range []*feeModel.FeePaymentModel{
		{FeePaymentStudentFeeID: open.StudentFeeID, FeePaymentStudentID: ayu.StudentID, FeePaymentAmount: 25000},
		{FeePaymentStudentFeeID: settled.StudentFeeID, FeePaymentStudentID: bima.StudentID, FeePaymentAmount: 80000},
	} {
		p.FeePaymentSchoolID = sid
		p.FeePaymentMethod = feeModel.MethodCash
		p.FeePaymentPaidAt = time.Now().UTC()
		require.NoError(t, db.Create(p).Error)
	}

	staff := &staffModel.StaffModel{
		StaffSchoolID:   sid,
		StaffEmployeeNo: "EMP-1",
		StaffFullName:   "Pak Budi",
		StaffRole:       staffModel.RoleTeacher,
		StaffJoinDate:   today,
		StaffIsActive:   true,
	}
	require.NoError(t, db.Create(staff).Error)
	require.NoError(t, db.Create(&leaveModel.StaffLeaveModel{
		StaffLeaveSchoolID:  sid,
		StaffLeaveStaffID:   staff.StaffID,
		StaffLeaveType:      leaveModel.LeaveSick,
		StaffLeaveStartDate: today,
		StaffLeaveEndDate:   today,
		StaffLeaveDays:      1,
	}).Error)

	book := &bookModel.LibraryBookModel{
		LibraryBookSchoolID:        sid,
		LibraryBookTitle:           "Laskar Pelangi",
		LibraryBookAuthor:          "Andrea Hirata",
		LibraryBookTotalCopies:     3,
		LibraryBookAvailableCopies: 2,
	}
	require.NoError(t, db.Create(book).Error)
	require.NoError(t, db.Create(&loanModel.LibraryLoanModel{
		LibraryLoanSchoolID:     sid,
		LibraryLoanBookID:       book.LibraryBookID,
		LibraryLoanBorrowerType: loanModel.BorrowerStudent,
		LibraryLoanBorrowerID:   ayu.StudentID,
		LibraryLoanIssuedAt:     today.AddDate(0, 0, -10),
		LibraryLoanDueAt:        today.AddDate(0, 0, -3),
	}).Error)

	app := dbtest.TenantApp(db, func(r fiber.Router) {
		reportRoute.ReportAdminRoutes(r, db, 30)
	})
	return fixture{
		app:     app,
		base:    "/api/a/" + sid.String() + "/reports",
		section: sec.ClassSectionID.String(),
		ayu:     ayu.StudentID.String(),
		today:   today,
	}
}

func TestOverview(t *testing.T) {
	f := setup(t)

	code, body := dbtest.Do(t, f.app, http.MethodGet, f.base+"/overview", nil)
	require.Equal(t, http.StatusOK, code, body)
	d := body.Data()
	assert.Equal(t, f.today.Format(dbtime.DateLayout), d["date"])
	assert.EqualValues(t, 2, d["active_students"])
	assert.EqualValues(t, 1, d["active_staff"])
	assert.EqualValues(t, 1, d["sections"])
	assert.EqualValues(t, 1, d["book_titles"])
	assert.EqualValues(t, 3, d["book_copies"])
	assert.EqualValues(t, 1, d["open_loans"])
	assert.EqualValues(t, 1, d["overdue_loans"])
	assert.EqualValues(t, 2, d["today_attendance_marked"])
	assert.EqualValues(t, 50, d["today_attendance_percentage"])
	assert.EqualValues(t, 105000, d["fees_collected_this_month"])
	assert.EqualValues(t, 75000, d["pending_fees_total"])
	assert.EqualValues(t, 1, d["overdue_dues"])
	assert.EqualValues(t, 1, d["pending_leaves"])
}

func TestAttendanceReport(t *testing.T) {
	f := setup(t)

	code, body := dbtest.Do(t, f.app, http.MethodGet, f.base+"/attendance?section_id="+f.section, nil)
	require.Equal(t, http.StatusOK, code, body)
	d := body.Data()
	students := d["students"].([]any)
	require.Len(t, students, 2)
	first := students[0].(map[string]any)
	assert.Equal(t, "Ayu", first["student_name"])
	assert.EqualValues(t, 2, first["total_days"])
	assert.EqualValues(t, 100, first["percentage"])
	assert.Len(t, d["trend"], 2)
	assert.EqualValues(t, 3, d["overall"].(map[string]any)["total_days"])

	code, _ = dbtest.Do(t, f.app, http.MethodGet, f.base+"/attendance?section_id="+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = dbtest.Do(t, f.app, http.MethodGet, f.base+"/attendance?from=2025-10-10&to=2025-10-01", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = dbtest.Do(t, f.app, http.MethodGet, f.base+"/attendance?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAttendanceReport_CSV(t *testing.T) {
	f := setup(t)

	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, f.base+"/attendance?format=csv", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `attachment; filename="attendance_`)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "student_id,student_name"))
	assert.Contains(t, lines[1], ",Ayu,")
	assert.Contains(t, lines[2], ",Bima,")
}

func TestFeeReport(t *testing.T) {
	f := setup(t)

	code, body := dbtest.Do(t, f.app, http.MethodGet, f.base+"/fees", nil)
	require.Equal(t, http.StatusOK, code, body)
	d := body.Data()
	totals := d["totals"].(map[string]any)
	assert.EqualValues(t, 200000, totals["total"])
	assert.EqualValues(t, 20000, totals["discount"])
	assert.EqualValues(t, 105000, totals["paid"])
	assert.EqualValues(t, 75000, totals["pending"])
	assert.EqualValues(t, 58.33, totals["collection_rate"])

	breakdown := d["breakdown"].(map[string]any)
	assert.EqualValues(t, 1, breakdown["paid"])
	assert.EqualValues(t, 1, breakdown["partial"])
	assert.EqualValues(t, 1, breakdown["overdue"])

	code, body = dbtest.Do(t, f.app, http.MethodGet, f.base+"/fees?student_id="+f.ayu, nil)
	require.Equal(t, http.StatusOK, code, body)
	students := body.Data()["students"].([]any)
	require.Len(t, students, 1)
	ayu := students[0].(map[string]any)
	assert.Equal(t, "partial", ayu["status"])
	assert.Len(t, ayu["payments"], 1)

	code, _ = dbtest.Do(t, f.app, http.MethodGet, f.base+"/fees?student_id="+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestClassReport(t *testing.T) {
	f := setup(t)

	code, body := dbtest.Do(t, f.app, http.MethodGet, f.base+"/classes", nil)
	require.Equal(t, http.StatusOK, code, body)
	rows := body.Data()["classes"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.Equal(t, "Class 5 - A", row["label"])
	assert.EqualValues(t, 2, row["student_count"])
	assert.EqualValues(t, 66.67, row["attendance_percentage"])
	assert.EqualValues(t, 70, row["assessment_average_percentage"])
	assert.EqualValues(t, 58.33, row["fee_collection_rate"])

	code, body = dbtest.Do(t, f.app, http.MethodGet, f.base+"/classes?section_ids="+uuid.NewString(), nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Empty(t, body.Data()["classes"])

	code, _ = dbtest.Do(t, f.app, http.MethodGet, f.base+"/classes?section_ids=nope", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
