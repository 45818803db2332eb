package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	sectionCtl "schoolku_backend/internals/features/academics/sections/controller"
)

func ClassSectionAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := sectionCtl.NewClassSectionController(db)

	grp := r.Group("/class-sections")
	grp.Get("/", ctl.List)
	grp.Post("/", ctl.Create)
	grp.Get("/:id", ctl.Get)
	grp.Patch("/:id", ctl.Update)
	grp.Delete("/:id", ctl.Delete)
}
