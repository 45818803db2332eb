package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	schoolCtl "schoolku_backend/internals/features/schools/schools/controller"
)

// SchoolPublicRoutes: tenant bootstrap (/api/public/schools)
func SchoolPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := schoolCtl.NewSchoolController(db)

	grp := r.Group("/schools")
	grp.Get("/", ctl.List)
	grp.Post("/", ctl.Create)
	grp.Get("/:slug", ctl.GetBySlug)
}

// SchoolAdminRoutes: /api/a/:school_id/profile
func SchoolAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := schoolCtl.NewSchoolController(db)

	r.Get("/profile", ctl.Profile)
	r.Patch("/profile", ctl.UpdateProfile)
}
