package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/helpers/logx"
	"schoolku_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the global middleware chain in order.
func SetupMiddlewares(app *fiber.App, cfg configs.AppConfig) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestContext(5 * time.Second))
	app.Use(logger.ZapMiddleware(logx.L().Named("http")))
	if cfg.AppEnv == "development" {
		app.Use(logger.LoggerMiddleware())
	}
	app.Use(CorsMiddleware(cfg.CorsOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(GlobalRateLimiter())
}
