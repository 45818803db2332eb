package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentCtl "schoolku_backend/internals/features/academics/students/controller"
)

func StudentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := studentCtl.NewStudentController(db)

	grp := r.Group("/students")
	grp.Get("/", ctl.List)
	grp.Post("/", ctl.Create)
	grp.Get("/:id", ctl.Get)
	grp.Patch("/:id", ctl.Update)
	grp.Delete("/:id", ctl.Delete)
}
