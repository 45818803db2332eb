package controller

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	attCtl "schoolku_backend/internals/features/academics/attendance/controller"
	attModel "schoolku_backend/internals/features/academics/attendance/model"
	attSvc "schoolku_backend/internals/features/academics/attendance/service"
	sectionCtl "schoolku_backend/internals/features/academics/sections/controller"
	sectionModel "schoolku_backend/internals/features/academics/sections/model"
	studentModel "schoolku_backend/internals/features/academics/students/model"
	feeModel "schoolku_backend/internals/features/finance/fees/model"
	feeSvc "schoolku_backend/internals/features/finance/fees/service"
	bookModel "schoolku_backend/internals/features/library/books/model"
	loanModel "schoolku_backend/internals/features/library/circulations/model"
	"schoolku_backend/internals/features/reports/service"
	leaveModel "schoolku_backend/internals/features/staff/leaves/model"
	staffModel "schoolku_backend/internals/features/staff/members/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
	scope "schoolku_backend/internals/middlewares/features"
)

// Fee trend windows are longer than attendance ones.
const (
	FeeWindowDefaultDays = 365
	FeeWindowMaxDays     = 731
)

type ReportController struct {
	DB          *gorm.DB
	DefaultDays int
}

func NewReportController(db *gorm.DB, defaultDays int) *ReportController {
	return &ReportController{DB: db, DefaultDays: defaultDays}
}

// GET /reports/attendance?from=&to=&section_id=&format=csv
func (h *ReportController) Attendance(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	w, err := attCtl.ResolveWindow(c, h.DefaultDays)
	if err != nil {
		return helper.FromError(c, err)
	}
	sectionID, err := helper.QueryUUID(c, "section_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	format, err := reportFormat(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	db := h.DB.WithContext(c.UserContext())
	if sectionID != nil {
		if err := sectionCtl.EnsureSection(db, schoolID, *sectionID); err != nil {
			return helper.FromError(c, err)
		}
	}

	rq := db.Where("attendance_school_id = ?", schoolID).
		Where("attendance_date BETWEEN ? AND ?", w.From, w.To)
	if sectionID != nil {
		rq = rq.Where("attendance_section_id = ?", *sectionID)
	}
	var records []attModel.AttendanceRecordModel
	if err := rq.Order("attendance_date ASC").Find(&records).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch attendance")
	}

	sq := db.Where("student_school_id = ? AND student_is_active = ?", schoolID, true)
	if sectionID != nil {
		sq = sq.Where("student_section_id = ?", *sectionID)
	}
	var students []studentModel.StudentModel
	if err := sq.Order("student_full_name ASC, student_id ASC").Find(&students).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch students")
	}

	// students who left after being marked still show up for the window
	listed := make(map[uuid.UUID]bool, len(students))
	for i := range students {
		listed[students[i].StudentID] = true
	}
	var missing []uuid.UUID
	for i := range records {
		id := records[i].AttendanceStudentID
		if !listed[id] {
			listed[id] = true
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		var extra []studentModel.StudentModel
		if err := db.Unscoped().
			Where("student_school_id = ? AND student_id IN ?", schoolID, missing).
			Order("student_full_name ASC, student_id ASC").
			Find(&extra).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch students")
		}
		students = append(students, extra...)
	}

	rep := service.BuildAttendanceReport(students, records, w)
	rep.SectionID = sectionID
	if format == "csv" {
		return sendCSV(c, "attendance", w, rep.Table())
	}
	return helper.JsonOK(c, "ok", rep)
}

// GET /reports/fees?section_id=&student_id=&from=&to=&format=csv
func (h *ReportController) Fees(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	w, err := feeWindow(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	sectionID, err := helper.QueryUUID(c, "section_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	studentID, err := helper.QueryUUID(c, "student_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	format, err := reportFormat(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	db := h.DB.WithContext(c.UserContext())
	if sectionID != nil {
		if err := sectionCtl.EnsureSection(db, schoolID, *sectionID); err != nil {
			return helper.FromError(c, err)
		}
	}

	sq := db.Where("student_school_id = ?", schoolID)
	if sectionID != nil {
		sq = sq.Where("student_section_id = ?", *sectionID)
	}
	if studentID != nil {
		sq = sq.Where("student_id = ?", *studentID)
	}
	var students []studentModel.StudentModel
	if err := sq.Find(&students).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch students")
	}
	if studentID != nil && len(students) == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "student not found")
	}

	ids := make([]uuid.UUID, 0, len(students))
	for i := range students {
		ids = append(ids, students[i].StudentID)
	}
	var (
		dues     []feeModel.StudentFeeModel
		payments []feeModel.FeePaymentModel
	)
	if len(ids) > 0 {
		if err := db.Where("student_fee_school_id = ? AND student_fee_student_id IN ?", schoolID, ids).
			Order("student_fee_due_date ASC").
			Find(&dues).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch dues")
		}
		if err := db.Where("fee_payment_school_id = ? AND fee_payment_student_id IN ?", schoolID, ids).
			Order("fee_payment_paid_at ASC").
			Find(&payments).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch payments")
		}
	}

	rep := service.BuildFeeReport(students, dues, payments, w, dbtime.TodayInSchool(c), dbtime.GetSchoolLocation(c))
	if format == "csv" {
		return sendCSV(c, "fees", w, rep.Table())
	}
	return helper.JsonOK(c, "ok", rep)
}

// GET /reports/classes?from=&to=&academic_year=&section_ids=a,b&format=csv
func (h *ReportController) Classes(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	w, err := attCtl.ResolveWindow(c, h.DefaultDays)
	if err != nil {
		return helper.FromError(c, err)
	}
	format, err := reportFormat(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	sectionIDs, err := helper.ParseUUIDsCSV(c.Query("section_ids"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "section_ids: "+err.Error())
	}
	db := h.DB.WithContext(c.UserContext())

	var in service.ClassInputs
	secQ := db.Where("class_section_school_id = ?", schoolID)
	if y := strings.TrimSpace(c.Query("academic_year")); y != "" {
		secQ = secQ.Where("class_section_academic_year = ?", y)
	}
	if len(sectionIDs) > 0 {
		secQ = secQ.Where("class_section_id IN ?", sectionIDs)
	}
	if err := secQ.Find(&in.Sections).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch sections")
	}
	if err := db.Where("student_school_id = ?", schoolID).Find(&in.Students).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch students")
	}
	if err := db.Where("attendance_school_id = ?", schoolID).
		Where("attendance_date BETWEEN ? AND ?", w.From, w.To).
		Find(&in.Attendance).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch attendance")
	}
	if err := db.Where("assessment_school_id = ?", schoolID).
		Where("assessment_date BETWEEN ? AND ?", w.From, w.To).
		Find(&in.Assessments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch assessments")
	}
	if len(in.Assessments) > 0 {
		aIDs := make([]uuid.UUID, 0, len(in.Assessments))
		for i := range in.Assessments {
			aIDs = append(aIDs, in.Assessments[i].AssessmentID)
		}
		if err := db.Where("assessment_result_school_id = ? AND assessment_result_assessment_id IN ?", schoolID, aIDs).
			Find(&in.Results).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch results")
		}
	}
	if err := db.Where("student_fee_school_id = ? AND student_fee_due_date <= ?", schoolID, w.To).
		Find(&in.Dues).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch dues")
	}

	rows := service.BuildClassReport(in)
	if format == "csv" {
		return sendCSV(c, "classes", w, service.ClassTable(rows))
	}
	return helper.JsonOK(c, "ok", fiber.Map{"window": w, "classes": rows})
}

// GET /reports/overview
func (h *ReportController) Overview(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	db := h.DB.WithContext(c.UserContext())
	loc := dbtime.GetSchoolLocation(c)
	now := dbtime.NowInSchool(c)
	today := dbtime.DateOf(now)

	out := service.Overview{Date: today.Format(dbtime.DateLayout)}
	counts := []struct {
		model any
		where string
		args  []any
		dst   *int64
	}{
		{&studentModel.StudentModel{}, "student_school_id = ? AND student_is_active = ?", []any{schoolID, true}, &out.ActiveStudents},
		{&staffModel.StaffModel{}, "staff_school_id = ? AND staff_is_active = ?", []any{schoolID, true}, &out.ActiveStaff},
		{&sectionModel.ClassSectionModel{}, "class_section_school_id = ?", []any{schoolID}, &out.Sections},
		{&bookModel.LibraryBookModel{}, "library_book_school_id = ?", []any{schoolID}, &out.BookTitles},
		{&loanModel.LibraryLoanModel{}, "library_loan_school_id = ? AND library_loan_returned_at IS NULL", []any{schoolID}, &out.OpenLoans},
		{&loanModel.LibraryLoanModel{}, "library_loan_school_id = ? AND library_loan_returned_at IS NULL AND library_loan_due_at < ?", []any{schoolID, today}, &out.OverdueLoans},
		{&feeModel.StudentFeeModel{}, "student_fee_school_id = ? AND student_fee_due_date < ? AND " + feeSvc.PendingSQL + " > 0", []any{schoolID, today}, &out.OverdueDues},
		{&leaveModel.StaffLeaveModel{}, "staff_leave_school_id = ? AND staff_leave_status = ?", []any{schoolID, leaveModel.LeavePending}, &out.PendingLeaves},
	}
	for _, q := range counts {
		if err := db.Model(q.model).Where(q.where, q.args...).Count(q.dst).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to build overview")
		}
	}

	if err := db.Model(&bookModel.LibraryBookModel{}).
		Where("library_book_school_id = ?", schoolID).
		Select("COALESCE(SUM(library_book_total_copies),0)").
		Scan(&out.BookCopies).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to build overview")
	}

	var marked []attModel.AttendanceRecordModel
	if err := db.Select("attendance_status").
		Where("attendance_school_id = ? AND attendance_date = ?", schoolID, today).
		Find(&marked).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to build overview")
	}
	tally := attSvc.Tally(marked)
	out.TodayAttendanceMarked = tally.TotalDays
	out.TodayAttendancePercentage = tally.Percentage

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	if err := db.Model(&feeModel.FeePaymentModel{}).
		Where("fee_payment_school_id = ?", schoolID).
		Where("fee_payment_paid_at >= ? AND fee_payment_paid_at < ?", monthStart.UTC(), monthStart.AddDate(0, 1, 0).UTC()).
		Select("COALESCE(SUM(fee_payment_amount),0)").
		Scan(&out.FeesCollectedThisMonth).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to build overview")
	}
	if err := db.Model(&feeModel.StudentFeeModel{}).
		Where("student_fee_school_id = ?", schoolID).
		Select(fmt.Sprintf("COALESCE(SUM(CASE WHEN %[1]s > 0 THEN %[1]s ELSE 0 END),0)", feeSvc.PendingSQL)).
		Scan(&out.PendingFeesTotal).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to build overview")
	}

	return helper.JsonOK(c, "ok", out)
}

func reportFormat(c *fiber.Ctx) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(c.Query("format"))); f {
	case "", "json":
		return "json", nil
	case "csv":
		return f, nil
	default:
		return "", fiber.NewError(fiber.StatusBadRequest, "format must be json or csv")
	}
}

func feeWindow(c *fiber.Ctx) (dbtime.Window, error) {
	loc := dbtime.GetSchoolLocation(c)
	from, err := helper.QueryDate(c, "from", loc)
	if err != nil {
		return dbtime.Window{}, err
	}
	to, err := helper.QueryDate(c, "to", loc)
	if err != nil {
		return dbtime.Window{}, err
	}
	w, err := dbtime.ResolveWindow(from, to, dbtime.TodayInSchool(c), FeeWindowDefaultDays, FeeWindowMaxDays)
	switch {
	case errors.Is(err, dbtime.ErrWindowInverted):
		return w, fiber.NewError(fiber.StatusBadRequest, "from must not be after to")
	case errors.Is(err, dbtime.ErrWindowTooLong):
		return w, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("window must not exceed %d days", FeeWindowMaxDays))
	}
	return w, err
}

func sendCSV(c *fiber.Ctx, name string, w dbtime.Window, t service.Table) error {
	filename := fmt.Sprintf("%s_%s_%s.csv", name, w.From.Format(dbtime.DateLayout), w.To.Format(dbtime.DateLayout))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	if err := service.WriteCSV(c.Response().BodyWriter(), t); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to write csv")
	}
	return nil
}
