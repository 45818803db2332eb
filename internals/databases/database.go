package database

import (
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/helpers/logx"
)

var DB *gorm.DB

func ConnectDB(cfg configs.AppConfig) error {
	logx.L().Info("connecting to postgres", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))

	// statement_timeout follows the HTTP timeout guard in main
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=schoolku&options=%s",
		url.QueryEscape(cfg.DBUser),
		url.QueryEscape(cfg.DBPassword),
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBSSLMode,
		url.QueryEscape("-c statement_timeout=5000"),
	)

	level := gormLogger.Warn
	if cfg.AppEnv == "development" {
		level = gormLogger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{Logger: configs.NewGormLogger(level)})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	DB = db
	logx.L().Info("db connected")
	return nil
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		logx.L().Warn("pool tune failed", zap.Error(err))
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(DB); err != nil {
			logx.L().Warn("warm-up ping failed", zap.Error(err))
		}
	}()
}

func Ping(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("db not initialised")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
