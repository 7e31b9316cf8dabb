package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assignmentctrl "classroom_backend/internals/features/school/submissions_assesment/assignments/controller"
	"classroom_backend/internals/helpers/oss"
)

func AssignmentStudentRoutes(student fiber.Router, db *gorm.DB, blob oss.BlobService) {
	h := assignmentctrl.NewAssignmentController(db, blob)

	student.Get("/classes/:class_id/assignments", h.StudentList)

	a := student.Group("/assignments")
	a.Get("/:id", h.StudentView)
	a.Post("/:id/submit", h.Submit)
	a.Get("/:id/submission", h.MySubmission)
}
