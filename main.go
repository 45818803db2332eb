package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"schoolku_backend/internals/configs"
	database "schoolku_backend/internals/databases"
	feeSvc "schoolku_backend/internals/features/finance/fees/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/logx"
	middlewares "schoolku_backend/internals/middlewares"
	routes "schoolku_backend/internals/route"
	"schoolku_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	cfg := configs.Cfg
	log := logx.L()
	defer logx.Sync()

	if err := database.ConnectDB(cfg); err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}
	database.TunePool()
	defer database.Close()

	if err := database.AutoMigrate(database.DB); err != nil {
		log.Fatal("auto migrate failed", zap.Error(err))
	}

	// go run main.go seed [dir]
	if len(os.Args) > 1 && os.Args[1] == "seed" {
		dir := seeds.DefaultDir
		if len(os.Args) > 2 {
			dir = os.Args[2]
		}
		if err := seeds.RunAllSeeds(context.Background(), database.DB, dir); err != nil {
			log.Fatal("seed failed", zap.Error(err))
		}
		log.Info("seed finished")
		return
	}
	database.WarmUpQueries()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.ErrorHandler,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ReadTimeout:             15 * time.Second,
		WriteTimeout:            30 * time.Second,
		IdleTimeout:             90 * time.Second,
	})
	middlewares.SetupMiddlewares(app, cfg)

	if err := routes.SetupRoutes(app, database.DB, cfg); err != nil {
		log.Fatal("route setup failed", zap.Error(err))
	}

	scheduler, err := feeSvc.StartScheduler(database.DB, cfg.FeeCronSpec)
	if err != nil {
		log.Fatal("fee scheduler failed", zap.Error(err), zap.String("spec", cfg.FeeCronSpec))
	}

	go func() {
		log.Info("listening", zap.String("port", cfg.Port))
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	<-scheduler.Stop().Done()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
}
