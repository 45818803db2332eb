package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	schoolRoute "schoolku_backend/internals/features/schools/schools/route"
)

func SchoolPublicRoutes(r fiber.Router, db *gorm.DB) {
	schoolRoute.SchoolPublicRoutes(r, db)
}

func SchoolAdminRoutes(r fiber.Router, db *gorm.DB) {
	schoolRoute.SchoolAdminRoutes(r, db)
}
