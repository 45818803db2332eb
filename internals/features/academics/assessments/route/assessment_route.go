package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assessmentCtl "schoolku_backend/internals/features/academics/assessments/controller"
)

func AssessmentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := assessmentCtl.NewAssessmentController(db)

	grp := r.Group("/assessments")
	grp.Get("/", ctl.List)
	grp.Post("/", ctl.Create)
	grp.Get("/:id", ctl.Get)
	grp.Patch("/:id", ctl.Update)
	grp.Delete("/:id", ctl.Delete)

	grp.Get("/:id/results", ctl.ListResults)
	grp.Put("/:id/results", ctl.UpsertResults)
	grp.Get("/:id/summary", ctl.Summary)
}
