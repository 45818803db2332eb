package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceCtl "schoolku_backend/internals/features/academics/attendance/controller"
)

func AttendanceAdminRoutes(r fiber.Router, db *gorm.DB, defaultWindowDays int) {
	ctl := attendanceCtl.NewAttendanceController(db, defaultWindowDays)

	grp := r.Group("/attendance")
	grp.Get("/", ctl.List)
	grp.Post("/mark", ctl.Mark)
	grp.Get("/students/:student_id/summary", ctl.StudentSummary)
}
