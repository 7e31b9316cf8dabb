package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assignmentctrl "classroom_backend/internals/features/school/submissions_assesment/assignments/controller"
	"classroom_backend/internals/helpers/oss"
)

func AssignmentTeacherRoutes(teacher fiber.Router, db *gorm.DB, blob oss.BlobService) {
	h := assignmentctrl.NewAssignmentController(db, blob)

	teacher.Get("/classes/:class_id/assignments", h.TeacherList)
	teacher.Post("/classes/:class_id/assignments", h.Create)

	a := teacher.Group("/assignments")
	a.Put("/:id", h.Update)
	a.Delete("/:id", h.Delete)
	a.Get("/:id/submissions", h.Submissions)

	teacher.Patch("/submissions/:id/grade", h.Grade)
}
