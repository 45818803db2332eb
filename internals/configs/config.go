package configs

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	"schoolku_backend/internals/helpers/logx"
)

// AppConfig holds every tunable the service reads from the environment.
type AppConfig struct {
	Port     string
	AppEnv   string
	LogLevel string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	DBSSLMode  string

	CorsOrigins []string

	AttendanceDefaultWindowDays int
	SchoolDayStart              string
	SchoolDayEnd                string

	LibraryLoanDays   int
	LibraryMaxLoans   int
	LibraryFinePerDay int64

	FeeCronSpec string

	MidtransServerKey string
	MidtransUseProd   bool
}

var Cfg AppConfig

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	source := "railway environment"
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		source = ".env file"
		if err := godotenv.Load(); err != nil {
			source = "system environment (no .env file)"
		}
	}

	Cfg = Read()

	// logger depends on APP_ENV/LOG_LEVEL, so it is built after the env is in place
	if _, err := logx.Init(Cfg.AppEnv, Cfg.LogLevel); err != nil {
		logx.Set(zap.NewExample())
	}
	logx.L().Info("config loaded", zap.String("source", source), zap.String("app_env", Cfg.AppEnv))

	if Cfg.MidtransServerKey == "" {
		logx.L().Warn("MIDTRANS_SERVER_KEY not set, online fee checkout disabled")
	}
}

// Read builds an AppConfig from the current environment.
func Read() AppConfig {
	return AppConfig{
		Port:     GetEnv("PORT", "3000"),
		AppEnv:   GetEnv("APP_ENV", "production"),
		LogLevel: GetEnv("LOG_LEVEL", "info"),

		DBUser:     GetEnv("DB_USER"),
		DBPassword: GetEnv("DB_PASSWORD"),
		DBHost:     GetEnv("DB_HOST", "localhost"),
		DBPort:     GetEnv("DB_PORT", "5432"),
		DBName:     GetEnv("DB_NAME"),
		DBSSLMode:  GetEnv("DB_SSLMODE", "require"),

		CorsOrigins: splitCSV(GetEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3001")),

		AttendanceDefaultWindowDays: GetEnvInt("ATTENDANCE_DEFAULT_WINDOW_DAYS", 30),
		SchoolDayStart:              GetEnv("SCHOOL_DAY_START", "06:00"),
		SchoolDayEnd:                GetEnv("SCHOOL_DAY_END", "18:00"),

		LibraryLoanDays:   GetEnvInt("LIBRARY_LOAN_DAYS", 14),
		LibraryMaxLoans:   GetEnvInt("LIBRARY_MAX_LOANS", 3),
		LibraryFinePerDay: int64(GetEnvInt("LIBRARY_FINE_PER_DAY", 1000)),

		FeeCronSpec: GetEnv("FEE_CRON_SPEC", "0 1 * * *"),

		MidtransServerKey: GetEnv("MIDTRANS_SERVER_KEY"),
		MidtransUseProd:   GetEnvBool("MIDTRANS_USE_PROD", false),
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return strings.TrimSpace(value)
}

func GetEnvInt(key string, def int) int {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logx.L().Warn("invalid int env, using default", zap.String("key", key), zap.String("value", v), zap.Int("default", def))
		return def
	}
	return n
}

func GetEnvBool(key string, def bool) bool {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitCSV(s string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// =======================
// GORM LOGGER (zap)
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
	log           *zap.Logger
}

func NewGormLogger(level gormLogger.LogLevel) gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
		log:           logx.L().Named("gorm"),
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	cp := *l
	cp.LogLevel = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		l.log.Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		l.log.Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		l.log.Sugar().Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.String("file", utils.FileWithLineNum()),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}

	switch {
	case err != nil && !errors.Is(err, gormLogger.ErrRecordNotFound) && l.LogLevel >= gormLogger.Error:
		l.log.Error("query failed", append(fields, zap.Error(err))...)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		l.log.Warn("slow query", fields...)
	case l.LogLevel >= gormLogger.Info:
		l.log.Debug("query", fields...)
	}
}
