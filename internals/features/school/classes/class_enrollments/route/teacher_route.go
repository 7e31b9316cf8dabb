package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	enrollctrl "classroom_backend/internals/features/school/classes/class_enrollments/controller"
)

// ClassEnrollmentTeacherRoutes: group guru (/dashboard/teacher)
func ClassEnrollmentTeacherRoutes(teacher fiber.Router, db *gorm.DB) {
	h := enrollctrl.NewClassEnrollmentController(db, nil)

	teacher.Get("/classes/:class_id/enrollments", h.TeacherRoster)
	teacher.Patch("/enrollments/:id/scores", h.RecordScores)
}
