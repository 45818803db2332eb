package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reportCtl "schoolku_backend/internals/features/reports/controller"
)

func ReportAdminRoutes(r fiber.Router, db *gorm.DB, attendanceDefaultDays int) {
	ctl := reportCtl.NewReportController(db, attendanceDefaultDays)

	grp := r.Group("/reports")
	grp.Get("/overview", ctl.Overview)
	grp.Get("/attendance", ctl.Attendance)
	grp.Get("/fees", ctl.Fees)
	grp.Get("/classes", ctl.Classes)
}
