// Package seeds loads the demo tenant from JSON files.
package seeds

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"schoolku_backend/internals/helpers/logx"
)

// DefaultDir is relative to the repository root.
const DefaultDir = "internals/seeds/data"

// RunAllSeeds loads every file in dir, parents first. Rows that already exist
// (matched on their natural key) are skipped, so it can run repeatedly.
func RunAllSeeds(ctx context.Context, db *gorm.DB, dir string) error {
	steps := []struct {
		name string
		run  func(context.Context, *gorm.DB, string) (int, error)
	}{
		{"schools", SeedSchoolsFromJSON},
		{"sections", SeedSectionsFromJSON},
		{"students", SeedStudentsFromJSON},
		{"staff", SeedStaffFromJSON},
		{"books", SeedBooksFromJSON},
		{"fee_structures", SeedFeeStructuresFromJSON},
	}
	for _, s := range steps {
		path := filepath.Join(dir, s.name+".json")
		n, err := s.run(ctx, db, path)
		if err != nil {
			return fmt.Errorf("seed %s: %w", s.name, err)
		}
		logx.L().Info("seeded", zap.String("file", path), zap.Int("inserted", n))
	}
	return nil
}

func readJSON[T any](path string) ([]T, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}
