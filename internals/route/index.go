package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	timetableSvc "schoolku_backend/internals/features/academics/timetables/service"
	feeSvc "schoolku_backend/internals/features/finance/fees/service"
	loanSvc "schoolku_backend/internals/features/library/circulations/service"
	"schoolku_backend/internals/helpers/logx"
	"schoolku_backend/internals/middlewares"
	scope "schoolku_backend/internals/middlewares/features"
	routeDetails "schoolku_backend/internals/route/details"
)

var startTime time.Time

// SetupRoutes mounts /health, /api/public and the tenant admin API at
// /api/a/:school_id.
func SetupRoutes(app *fiber.App, db *gorm.DB, cfg configs.AppConfig) error {
	startTime = time.Now()

	day, err := timetableSvc.NewDayWindow(cfg.SchoolDayStart, cfg.SchoolDayEnd)
	if err != nil {
		return err
	}
	policy := loanSvc.Policy{
		LoanDays:   cfg.LibraryLoanDays,
		MaxLoans:   cfg.LibraryMaxLoans,
		FinePerDay: cfg.LibraryFinePerDay,
	}.WithDefaults()

	var gateway feeSvc.PaymentGateway
	if cfg.MidtransServerKey != "" {
		gateway = feeSvc.NewMidtransGateway(cfg.MidtransServerKey, cfg.MidtransUseProd)
	}

	BaseRoutes(app, db, cfg.AppEnv)

	public := app.Group("/api/public")
	admin := app.Group("/api/a/:school_id", scope.UseSchoolScope(db))

	logx.L().Info("mounting school routes")
	routeDetails.SchoolPublicRoutes(public, db)
	routeDetails.SchoolAdminRoutes(admin, db)

	logx.L().Info("mounting academics routes")
	routeDetails.AcademicsAdminRoutes(admin, db, cfg.AttendanceDefaultWindowDays, day)

	logx.L().Info("mounting finance routes")
	routeDetails.FinancePublicRoutes(public, db, cfg.MidtransServerKey, middlewares.WebhookRateLimiter())
	routeDetails.FinanceAdminRoutes(admin, db, gateway, cfg.MidtransServerKey)

	logx.L().Info("mounting staff, library, communication and report routes")
	routeDetails.StaffAdminRoutes(admin, db)
	routeDetails.LibraryAdminRoutes(admin, db, policy)
	routeDetails.CommunicationAdminRoutes(admin, db)
	routeDetails.ReportAdminRoutes(admin, db, cfg.AttendanceDefaultWindowDays)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "route not found")
	})
	return nil
}
