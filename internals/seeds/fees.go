package seeds

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	feeModel "schoolku_backend/internals/features/finance/fees/model"
	feeSvc "schoolku_backend/internals/features/finance/fees/service"
	"schoolku_backend/internals/helpers/dbtime"
	"schoolku_backend/internals/helpers/logx"
)

type feeStructureSeed struct {
	School    string `json:"school"`
	Name      string `json:"name"`
	Amount    int64  `json:"amount"`
	Frequency string `json:"frequency"`
	DueDay    int    `json:"due_day"`
	StartsOn  string `json:"starts_on"`
	EndsOn    string `json:"ends_on"`
	LateFee   *int64 `json:"late_fee"`
}

// SeedFeeStructuresFromJSON creates school-wide structures and assigns their
// dues to every active student.
func SeedFeeStructuresFromJSON(ctx context.Context, db *gorm.DB, path string) (int, error) {
	rows, err := readJSON[feeStructureSeed](path)
	if err != nil {
		return 0, err
	}
	schools := newSchoolIDs(db)
	n := 0
	for _, s := range rows {
		schoolID, err := schools.get(ctx, s.School)
		if err != nil {
			return n, err
		}
		freq := feeModel.Frequency(s.Frequency)
		if !freq.Valid() {
			return n, fmt.Errorf("fee structure %s: unknown frequency %q", s.Name, s.Frequency)
		}
		var exists int64
		if err := db.WithContext(ctx).Model(&feeModel.FeeStructureModel{}).
			Where("fee_structure_school_id = ? AND fee_structure_name = ?", schoolID, s.Name).
			Count(&exists).Error; err != nil {
			return n, err
		}
		if exists > 0 {
			continue
		}
		starts, err := dbtime.ParseDate(s.StartsOn)
		if err != nil {
			return n, fmt.Errorf("fee structure %s starts_on: %w", s.Name, err)
		}
		ends, err := dbtime.ParseDate(s.EndsOn)
		if err != nil {
			return n, fmt.Errorf("fee structure %s ends_on: %w", s.Name, err)
		}
		st := feeModel.FeeStructureModel{
			FeeStructureSchoolID:  schoolID,
			FeeStructureName:      s.Name,
			FeeStructureAmount:    s.Amount,
			FeeStructureFrequency: freq,
			FeeStructureDueDay:    s.DueDay,
			FeeStructureStartsOn:  starts,
			FeeStructureEndsOn:    ends,
			FeeStructureLateFee:   s.LateFee,
			FeeStructureIsActive:  true,
		}
		if err := db.WithContext(ctx).Create(&st).Error; err != nil {
			return n, err
		}
		res, err := feeSvc.Assign(ctx, db, &st, nil)
		if err != nil {
			return n, fmt.Errorf("assign %s: %w", s.Name, err)
		}
		logx.L().Info("fee structure assigned",
			zap.String("structure", s.Name),
			zap.Int("students", res.Students),
			zap.Int64("dues", res.Created))
		n++
	}
	return n, nil
}
