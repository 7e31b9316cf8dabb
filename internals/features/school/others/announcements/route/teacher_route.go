package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	announcementctrl "classroom_backend/internals/features/school/others/announcements/controller"
)

func AnnouncementTeacherRoutes(teacher fiber.Router, db *gorm.DB) {
	h := announcementctrl.NewAnnouncementController(db)

	teacher.Get("/classes/:class_id/announcements", h.TeacherList)
	teacher.Post("/classes/:class_id/announcements", h.Create)
	teacher.Put("/announcements/:id", h.Update)
	teacher.Delete("/announcements/:id", h.Delete)
}
