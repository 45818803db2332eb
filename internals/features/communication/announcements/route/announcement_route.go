package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	announcementCtl "schoolku_backend/internals/features/communication/announcements/controller"
)

func AnnouncementAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := announcementCtl.NewAnnouncementController(db)

	grp := r.Group("/announcements")
	grp.Get("/", ctl.List)
	grp.Post("/", ctl.Create)
	grp.Get("/:id", ctl.Get)
	grp.Patch("/:id", ctl.Update)
	grp.Delete("/:id", ctl.Delete)
}
