package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	loanCtl "schoolku_backend/internals/features/library/circulations/controller"
	"schoolku_backend/internals/features/library/circulations/service"
)

func LoanAdminRoutes(r fiber.Router, db *gorm.DB, policy service.Policy) {
	ctl := loanCtl.NewLoanController(db, policy)

	grp := r.Group("/library/loans")
	grp.Get("/", ctl.List)
	grp.Post("/", ctl.Issue)
	grp.Get("/:id", ctl.Get)
	grp.Post("/:id/return", ctl.Return)
}
