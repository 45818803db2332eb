package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	announcementRoute "schoolku_backend/internals/features/communication/announcements/route"
	bookRoute "schoolku_backend/internals/features/library/books/route"
	loanRoute "schoolku_backend/internals/features/library/circulations/route"
	loanSvc "schoolku_backend/internals/features/library/circulations/service"
	reportRoute "schoolku_backend/internals/features/reports/route"
	leaveRoute "schoolku_backend/internals/features/staff/leaves/route"
	staffRoute "schoolku_backend/internals/features/staff/members/route"
)

func StaffAdminRoutes(r fiber.Router, db *gorm.DB) {
	staffRoute.StaffAdminRoutes(r, db)
	leaveRoute.LeaveAdminRoutes(r, db)
}

func LibraryAdminRoutes(r fiber.Router, db *gorm.DB, policy loanSvc.Policy) {
	bookRoute.BookAdminRoutes(r, db)
	loanRoute.LoanAdminRoutes(r, db, policy)
}

func CommunicationAdminRoutes(r fiber.Router, db *gorm.DB) {
	announcementRoute.AnnouncementAdminRoutes(r, db)
}

func ReportAdminRoutes(r fiber.Router, db *gorm.DB, attendanceWindowDays int) {
	reportRoute.ReportAdminRoutes(r, db, attendanceWindowDays)
}
