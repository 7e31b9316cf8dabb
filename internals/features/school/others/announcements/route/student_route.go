package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	announcementctrl "classroom_backend/internals/features/school/others/announcements/controller"
)

func AnnouncementStudentRoutes(student fiber.Router, db *gorm.DB) {
	h := announcementctrl.NewAnnouncementController(db)

	student.Get("/classes/:class_id/announcements", h.StudentList)
	student.Get("/announcements/:id", h.StudentView)
}
