package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	enrollctrl "classroom_backend/internals/features/school/classes/class_enrollments/controller"
	"classroom_backend/internals/helpers/mailer"
)

// ClassEnrollmentAdminRoutes: group admin (/dashboard/admin)
func ClassEnrollmentAdminRoutes(admin fiber.Router, db *gorm.DB, m *mailer.Dispatcher) {
	h := enrollctrl.NewClassEnrollmentController(db, m)

	grp := admin.Group("/enrollments")
	{
		grp.Get("/", h.AdminList)
		grp.Post("/", h.AdminAdd)
		grp.Post("/:id/approve", h.Approve)
		grp.Post("/:id/reject", h.Reject)
		grp.Post("/:id/verify-payment", h.VerifyPayment)
		grp.Delete("/:id", h.Delete)
	}
}
