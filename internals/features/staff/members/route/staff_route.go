package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	staffCtl "schoolku_backend/internals/features/staff/members/controller"
)

func StaffAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := staffCtl.NewStaffController(db)

	grp := r.Group("/staff")
	grp.Get("/", ctl.List)
	grp.Post("/", ctl.Create)
	grp.Get("/:id", ctl.Get)
	grp.Patch("/:id", ctl.Update)
	grp.Delete("/:id", ctl.Delete)
}
