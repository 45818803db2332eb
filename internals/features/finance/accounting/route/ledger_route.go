package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	ledgerCtl "schoolku_backend/internals/features/finance/accounting/controller"
)

func LedgerAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := ledgerCtl.NewLedgerController(db)

	grp := r.Group("/ledger")
	grp.Get("/", ctl.List)
	grp.Post("/", ctl.Create)
	grp.Get("/summary", ctl.Summary)
	grp.Get("/:id", ctl.Get)
	grp.Patch("/:id", ctl.Update)
	grp.Delete("/:id", ctl.Delete)
}
