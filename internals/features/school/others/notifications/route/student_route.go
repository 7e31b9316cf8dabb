package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	notificationctrl "classroom_backend/internals/features/school/others/notifications/controller"
)

func NotificationStudentRoutes(student fiber.Router, db *gorm.DB) {
	h := notificationctrl.NewNotificationController(db)

	n := student.Group("/notifications")
	n.Get("/", h.Feed)
	n.Get("/unread-count", h.UnreadCount)
	n.Post("/read-all", h.MarkAllRead)
	n.Post("/:type/:id/read", h.MarkRead)
}
