package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	bookCtl "schoolku_backend/internals/features/library/books/controller"
)

func BookAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := bookCtl.NewBookController(db)

	grp := r.Group("/library/books")
	grp.Get("/", ctl.List)
	grp.Post("/", ctl.Create)
	grp.Get("/:id", ctl.Get)
	grp.Patch("/:id", ctl.Update)
	grp.Delete("/:id", ctl.Delete)
}
