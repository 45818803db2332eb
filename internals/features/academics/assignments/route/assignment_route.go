package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assignmentCtl "schoolku_backend/internals/features/academics/assignments/controller"
)

func AssignmentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := assignmentCtl.NewAssignmentController(db)

	grp := r.Group("/assignments")
	grp.Get("/", ctl.List)
	grp.Post("/", ctl.Create)
	grp.Get("/:id", ctl.Get)
	grp.Patch("/:id", ctl.Update)
	grp.Delete("/:id", ctl.Delete)

	grp.Get("/:id/submissions", ctl.ListSubmissions)
	grp.Post("/:id/submissions", ctl.Submit)
	grp.Patch("/:id/submissions/:submission_id/grade", ctl.Grade)
}
