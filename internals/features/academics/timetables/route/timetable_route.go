package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	timetableCtl "schoolku_backend/internals/features/academics/timetables/controller"
	"schoolku_backend/internals/features/academics/timetables/service"
)

func TimetableAdminRoutes(r fiber.Router, db *gorm.DB, window service.DayWindow) {
	ctl := timetableCtl.NewTimetableController(db, window)

	grp := r.Group("/timetables")
	grp.Get("/", ctl.List)
	grp.Get("/weekly", ctl.Weekly)
	grp.Post("/", ctl.Create)
	grp.Patch("/:id", ctl.Update)
	grp.Delete("/:id", ctl.Delete)
}
