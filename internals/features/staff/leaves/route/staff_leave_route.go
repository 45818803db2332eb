package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	leaveCtl "schoolku_backend/internals/features/staff/leaves/controller"
)

func LeaveAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := leaveCtl.NewLeaveController(db)

	grp := r.Group("/staff-leaves")
	grp.Get("/", ctl.List)
	grp.Post("/", ctl.Create)
	grp.Get("/:id", ctl.Get)
	grp.Post("/:id/approve", ctl.Approve)
	grp.Post("/:id/reject", ctl.Reject)
	grp.Delete("/:id", ctl.Delete)
}
