package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/finance/fees/model"
	schoolModel "schoolku_backend/internals/features/schools/schools/model"
	"schoolku_backend/internals/helpers/dbtime"
	"schoolku_backend/internals/helpers/logx"
)

const upcomingDays = 7

// SchoolDigest is what the daily job reports for one school.
type SchoolDigest struct {
	SchoolID uuid.UUID
	Created  int64
	Upcoming int64
	Overdue  int64
}

// RunDailyDues generates this month's dues of every active recurring structure
// and counts upcoming and overdue dues per school. "This month" and "today"
// follow each school's timezone.
func RunDailyDues(ctx context.Context, db *gorm.DB, now time.Time) ([]SchoolDigest, error) {
	var schools []schoolModel.SchoolModel
	if err := db.WithContext(ctx).
		Where("school_is_active = ?", true).
		Find(&schools).Error; err != nil {
		return nil, err
	}

	log := logx.L().Named("fees.cron")
	out := make([]SchoolDigest, 0, len(schools))
	for _, s := range schools {
		today := dbtime.DateOf(now.In(dbtime.LoadLocation(s.SchoolTimezone)))
		month := dbtime.MonthStart(today)
		dg := SchoolDigest{SchoolID: s.SchoolID}

		var structures []model.FeeStructureModel
		if err := db.WithContext(ctx).
			Where("fee_structure_school_id = ? AND fee_structure_is_active = ?", s.SchoolID, true).
			Where("fee_structure_frequency <> ?", model.FrequencyOneTime).
			Where("fee_structure_starts_on <= ? AND fee_structure_ends_on >= ?", today, month).
			Find(&structures).Error; err != nil {
			return out, err
		}
		for i := range structures {
			res, err := Assign(ctx, db, &structures[i], func(d Due) bool {
				return dbtime.MonthStart(d.Date).Equal(month)
			})
			if err != nil {
				log.Error("assign failed",
					zap.String("school_id", s.SchoolID.String()),
					zap.String("fee_structure_id", structures[i].FeeStructureID.String()),
					zap.Error(err))
				continue
			}
			dg.Created += res.Created
		}

		base := db.WithContext(ctx).Model(&model.StudentFeeModel{}).
			Where("student_fee_school_id = ?", s.SchoolID).
			Where(PendingSQL + " > 0")
		if err := base.Session(&gorm.Session{}).
			Where("student_fee_due_date < ?", today).
			Count(&dg.Overdue).Error; err != nil {
			return out, err
		}
		if err := base.Session(&gorm.Session{}).
			Where("student_fee_due_date BETWEEN ? AND ?", today, today.AddDate(0, 0, upcomingDays)).
			Count(&dg.Upcoming).Error; err != nil {
			return out, err
		}

		log.Info("fee digest",
			zap.String("school_id", s.SchoolID.String()),
			zap.Int64("created", dg.Created),
			zap.Int64("upcoming", dg.Upcoming),
			zap.Int64("overdue", dg.Overdue))
		out = append(out, dg)
	}
	return out, nil
}

// StartScheduler registers the daily dues job on spec and starts the cron.
// The caller stops it on shutdown.
func StartScheduler(db *gorm.DB, spec string) (*cron.Cron, error) {
	clog := cron.PrintfLogger(zap.NewStdLog(logx.L().Named("cron")))
	c := cron.New(cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)))

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := RunDailyDues(ctx, db, time.Now()); err != nil {
			logx.L().Error("daily fee job failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	logx.L().Info("fee scheduler started", zap.String("spec", spec))
	return c, nil
}
