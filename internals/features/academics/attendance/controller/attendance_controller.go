package controller

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolku_backend/internals/features/academics/attendance/dto"
	"schoolku_backend/internals/features/academics/attendance/model"
	"schoolku_backend/internals/features/academics/attendance/service"
	sectionCtl "schoolku_backend/internals/features/academics/sections/controller"
	studentModel "schoolku_backend/internals/features/academics/students/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
	scope "schoolku_backend/internals/middlewares/features"
)

// MaxWindowDays caps any attendance query window.
const MaxWindowDays = 366

type AttendanceController struct {
	DB          *gorm.DB
	DefaultDays int
}

func NewAttendanceController(db *gorm.DB, defaultDays int) *AttendanceController {
	return &AttendanceController{DB: db, DefaultDays: defaultDays}
}

// POST /attendance/mark
func (h *AttendanceController) Mark(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.MarkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}

	date, err := dbtime.ParseDate(req.Date)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	if date.After(dbtime.TodayInSchool(c)) {
		return helper.JsonError(c, fiber.StatusBadRequest, "cannot mark attendance for a future date")
	}
	if err := sectionCtl.EnsureSection(h.DB.WithContext(c.UserContext()), schoolID, req.SectionID); err != nil {
		return helper.FromError(c, err)
	}

	// every student must sit in the section
	ids := make([]uuid.UUID, 0, len(req.Records))
	for _, r := range req.Records {
		ids = append(ids, r.StudentID)
	}
	var members []uuid.UUID
	if err := h.DB.WithContext(c.UserContext()).
		Model(&studentModel.StudentModel{}).
		Where("student_school_id = ? AND student_section_id = ? AND student_id IN ?", schoolID, req.SectionID, ids).
		Pluck("student_id", &members).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to check students")
	}
	inSection := make(map[uuid.UUID]bool, len(members))
	for _, id := range members {
		inSection[id] = true
	}
	fieldErrs := map[string][]string{}
	seen := map[uuid.UUID]bool{}
	for i, r := range req.Records {
		key := fmt.Sprintf("records[%d].student_id", i)
		if !inSection[r.StudentID] {
			fieldErrs[key] = append(fieldErrs[key], "student is not in this section")
		}
		if seen[r.StudentID] {
			fieldErrs[key] = append(fieldErrs[key], "student listed twice")
		}
		seen[r.StudentID] = true
	}
	if len(fieldErrs) > 0 {
		return helper.JsonValidationError(c, fieldErrs)
	}

	rows := make([]model.AttendanceRecordModel, 0, len(req.Records))
	for _, r := range req.Records {
		rows = append(rows, model.AttendanceRecordModel{
			AttendanceSchoolID:  schoolID,
			AttendanceSectionID: req.SectionID,
			AttendanceStudentID: r.StudentID,
			AttendanceDate:      date,
			AttendanceStatus:    model.Status(r.Status),
			AttendanceNote:      helper.TrimPtr(r.Note),
		})
	}
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "attendance_student_id"}, {Name: "attendance_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"attendance_section_id",
				"attendance_status",
				"attendance_note",
				"attendance_updated_at",
			}),
		}).Create(&rows).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save attendance")
	}

	counts := service.Tally(rows)
	return helper.JsonOK(c, "attendance saved", fiber.Map{
		"section_id": req.SectionID,
		"date":       date.Format(dbtime.DateLayout),
		"marked":     len(rows),
		"counts":     counts,
	})
}

// GET /attendance
func (h *AttendanceController) List(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "date", "desc", helper.ExportOpts)

	w, err := h.window(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	tx := h.DB.WithContext(c.UserContext()).
		Model(&model.AttendanceRecordModel{}).
		Where("attendance_school_id = ?", schoolID).
		Where("attendance_date BETWEEN ? AND ?", w.From, w.To)

	sectionID, err := helper.QueryUUID(c, "section_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if sectionID != nil {
		tx = tx.Where("attendance_section_id = ?", *sectionID)
	}
	studentID, err := helper.QueryUUID(c, "student_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if studentID != nil {
		tx = tx.Where("attendance_student_id = ?", *studentID)
	}
	if s := c.Query("status"); s != "" {
		if !model.Status(s).Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "status must be one of present, absent, late, excused")
		}
		tx = tx.Where("attendance_status = ?", s)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count attendance")
	}
	order := p.OrderExpr(map[string]string{
		"date":   "attendance_date",
		"status": "attendance_status",
	}, "date")

	var rows []model.AttendanceRecordModel
	if err := tx.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch attendance")
	}

	names, err := h.studentNames(c, rows)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch students")
	}
	out := make([]dto.AttendanceResponse, 0, len(rows))
	for i := range rows {
		r := dto.FromModel(&rows[i])
		r.AttendanceStudentName = names[rows[i].AttendanceStudentID]
		out = append(out, r)
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

// GET /attendance/students/:student_id/summary
func (h *AttendanceController) StudentSummary(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	studentID, err := helper.ParamUUID(c, "student_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	w, err := h.window(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var st studentModel.StudentModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("student_school_id = ? AND student_id = ?", schoolID, studentID).
		First(&st).Error; err != nil {
		return helper.FromError(c, err)
	}

	var rows []model.AttendanceRecordModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("attendance_school_id = ? AND attendance_student_id = ?", schoolID, studentID).
		Where("attendance_date BETWEEN ? AND ?", w.From, w.To).
		Order("attendance_date ASC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch attendance")
	}

	return helper.JsonOK(c, "ok", dto.StudentSummaryResponse{
		StudentID:   st.StudentID,
		StudentName: st.StudentFullName,
		Window:      w,
		Counts:      service.Tally(rows),
		Trend:       service.DailyTrend(rows, w),
	})
}

// window resolves ?from=&to= in the school timezone.
func (h *AttendanceController) window(c *fiber.Ctx) (dbtime.Window, error) {
	return ResolveWindow(c, h.DefaultDays)
}

// ResolveWindow reads from/to with the default span and the 366-day cap.
func ResolveWindow(c *fiber.Ctx, defaultDays int) (dbtime.Window, error) {
	loc := dbtime.GetSchoolLocation(c)
	from, err := helper.QueryDate(c, "from", loc)
	if err != nil {
		return dbtime.Window{}, err
	}
	to, err := helper.QueryDate(c, "to", loc)
	if err != nil {
		return dbtime.Window{}, err
	}
	w, err := dbtime.ResolveWindow(from, to, dbtime.TodayInSchool(c), defaultDays, MaxWindowDays)
	switch {
	case errors.Is(err, dbtime.ErrWindowInverted):
		return w, fiber.NewError(fiber.StatusBadRequest, "from must not be after to")
	case errors.Is(err, dbtime.ErrWindowTooLong):
		return w, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("window must not exceed %d days", MaxWindowDays))
	}
	return w, err
}

func (h *AttendanceController) studentNames(c *fiber.Ctx, rows []model.AttendanceRecordModel) (map[uuid.UUID]string, error) {
	out := map[uuid.UUID]string{}
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].AttendanceStudentID)
	}
	var studs []studentModel.StudentModel
	if err := h.DB.WithContext(c.UserContext()).Unscoped().
		Select("student_id", "student_full_name").
		Where("student_id IN ?", ids).
		Find(&studs).Error; err != nil {
		return nil, err
	}
	for _, s := range studs {
		out[s.StudentID] = s.StudentFullName
	}
	return out, nil
}
