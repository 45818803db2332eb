package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	ledgerRoute "schoolku_backend/internals/features/finance/accounting/route"
	feeRoute "schoolku_backend/internals/features/finance/fees/route"
	feeSvc "schoolku_backend/internals/features/finance/fees/service"
)

func FinancePublicRoutes(r fiber.Router, db *gorm.DB, serverKey string, guards ...fiber.Handler) {
	feeRoute.FeePublicRoutes(r, db, serverKey, guards...)
}

// FinanceAdminRoutes mounts fees and the ledger. gateway may be nil, which
// disables online checkout.
func FinanceAdminRoutes(r fiber.Router, db *gorm.DB, gateway feeSvc.PaymentGateway, serverKey string) {
	feeRoute.FeeAdminRoutes(r, db, gateway, serverKey)
	ledgerRoute.LedgerAdminRoutes(r, db)
}
