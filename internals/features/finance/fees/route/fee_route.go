package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	feeCtl "schoolku_backend/internals/features/finance/fees/controller"
	"schoolku_backend/internals/features/finance/fees/service"
)

func FeeAdminRoutes(r fiber.Router, db *gorm.DB, gateway service.PaymentGateway, serverKey string) {
	ctl := feeCtl.NewFeeController(db, gateway, serverKey)

	grp := r.Group("/fees")

	st := grp.Group("/structures")
	st.Get("/", ctl.ListStructures)
	st.Post("/", ctl.CreateStructure)
	st.Get("/:id", ctl.GetStructure)
	st.Patch("/:id", ctl.UpdateStructure)
	st.Delete("/:id", ctl.DeleteStructure)
	st.Post("/:id/assign", ctl.Assign)

	dues := grp.Group("/dues")
	dues.Get("/", ctl.ListDues)
	dues.Get("/:id", ctl.GetDue)
	dues.Patch("/:id", ctl.UpdateDue)
	dues.Post("/:id/payments", ctl.RecordPayment)
	dues.Post("/:id/checkout", ctl.Checkout)

	grp.Get("/payments", ctl.ListPayments)
}

// FeePublicRoutes mounts the gateway webhook; guard it with a rate limiter.
func FeePublicRoutes(r fiber.Router, db *gorm.DB, serverKey string, guards ...fiber.Handler) {
	ctl := feeCtl.NewFeeController(db, nil, serverKey)

	handlers := append(guards, ctl.MidtransWebhook)
	r.Post("/payments/midtrans/webhook", handlers...)
}
