package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	enrollctrl "classroom_backend/internals/features/school/classes/class_enrollments/controller"
)

// ClassEnrollmentStudentRoutes: group siswa (/dashboard/student)
func ClassEnrollmentStudentRoutes(student fiber.Router, db *gorm.DB) {
	h := enrollctrl.NewClassEnrollmentController(db, nil)

	student.Post("/classes/:class_id/enroll", h.Request)
	student.Get("/enrollments", h.ListMine)
}
