package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	feedbackctrl "classroom_backend/internals/features/school/others/feedbacks/controller"
)

func FeedbackStudentRoutes(student fiber.Router, db *gorm.DB) {
	h := feedbackctrl.NewFeedbackController(db)
	student.Get("/classes/:class_id/feedback", h.Mine)
	student.Post("/classes/:class_id/feedback", h.Submit)
}

func FeedbackTeacherRoutes(teacher fiber.Router, db *gorm.DB) {
	h := feedbackctrl.NewFeedbackController(db)
	teacher.Get("/feedback", h.TeacherList)
}

func FeedbackAdminRoutes(admin fiber.Router, db *gorm.DB) {
	h := feedbackctrl.NewFeedbackController(db)
	admin.Get("/feedback", h.AdminList)
}
