package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	assessmentModel "schoolku_backend/internals/features/academics/assessments/model"
	assignmentModel "schoolku_backend/internals/features/academics/assignments/model"
	attendanceModel "schoolku_backend/internals/features/academics/attendance/model"
	sectionModel "schoolku_backend/internals/features/academics/sections/model"
	studentModel "schoolku_backend/internals/features/academics/students/model"
	timetableModel "schoolku_backend/internals/features/academics/timetables/model"
	announcementModel "schoolku_backend/internals/features/communication/announcements/model"
	ledgerModel "schoolku_backend/internals/features/finance/accounting/model"
	feeModel "schoolku_backend/internals/features/finance/fees/model"
	bookModel "schoolku_backend/internals/features/library/books/model"
	loanModel "schoolku_backend/internals/features/library/circulations/model"
	schoolModel "schoolku_backend/internals/features/schools/schools/model"
	leaveModel "schoolku_backend/internals/features/staff/leaves/model"
	staffModel "schoolku_backend/internals/features/staff/members/model"
	"schoolku_backend/internals/helpers/logx"
)

// Models lists every table the service owns, parents first.
func Models() []any {
	return []any{
		&schoolModel.SchoolModel{},
		&sectionModel.ClassSectionModel{},
		&studentModel.StudentModel{},
		&staffModel.StaffModel{},
		&leaveModel.StaffLeaveModel{},
		&attendanceModel.AttendanceRecordModel{},
		&assessmentModel.AssessmentModel{},
		&assessmentModel.AssessmentResultModel{},
		&assignmentModel.AssignmentModel{},
		&assignmentModel.AssignmentSubmissionModel{},
		&timetableModel.TimetableSlotModel{},
		&announcementModel.AnnouncementModel{},
		&ledgerModel.LedgerEntryModel{},
		&feeModel.FeeStructureModel{},
		&feeModel.StudentFeeModel{},
		&feeModel.FeePaymentModel{},
		&feeModel.FeeGatewayEventModel{},
		&bookModel.LibraryBookModel{},
		&loanModel.LibraryLoanModel{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	models := Models()
	if err := db.AutoMigrate(models...); err != nil {
		return err
	}
	logx.L().Info("schema migrated", zap.Int("tables", len(models)))
	return nil
}
