// Package dbtest opens throwaway in-memory SQLite databases for handler and
// service tests.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	schoolModel "schoolku_backend/internals/features/schools/schools/model"
)

// Open returns a fresh database with the given models migrated.
// The schools table is always present.
func Open(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(append([]any{&schoolModel.SchoolModel{}}, models...)...))
	return db
}

// School inserts an active tenant and returns it.
func School(t *testing.T, db *gorm.DB, name string) *schoolModel.SchoolModel {
	t.Helper()
	s := &schoolModel.SchoolModel{
		SchoolName:     name,
		SchoolSlug:     uuid.NewString(),
		SchoolTimezone: "Asia/Jakarta",
		SchoolIsActive: true,
	}
	require.NoError(t, db.Create(s).Error)
	return s
}
