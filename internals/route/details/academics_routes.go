package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assessmentRoute "schoolku_backend/internals/features/academics/assessments/route"
	assignmentRoute "schoolku_backend/internals/features/academics/assignments/route"
	attendanceRoute "schoolku_backend/internals/features/academics/attendance/route"
	sectionRoute "schoolku_backend/internals/features/academics/sections/route"
	studentRoute "schoolku_backend/internals/features/academics/students/route"
	timetableRoute "schoolku_backend/internals/features/academics/timetables/route"
	timetableSvc "schoolku_backend/internals/features/academics/timetables/service"
)

func AcademicsAdminRoutes(r fiber.Router, db *gorm.DB, attendanceWindowDays int, day timetableSvc.DayWindow) {
	sectionRoute.ClassSectionAdminRoutes(r, db)
	studentRoute.StudentAdminRoutes(r, db)
	attendanceRoute.AttendanceAdminRoutes(r, db, attendanceWindowDays)
	assessmentRoute.AssessmentAdminRoutes(r, db)
	assignmentRoute.AssignmentAdminRoutes(r, db)
	timetableRoute.TimetableAdminRoutes(r, db, day)
}
