package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	messagectrl "classroom_backend/internals/features/users/messages/controller"
)

// MessageRoutes: semua role yang login (group sudah dilindungi auth)
func MessageRoutes(r fiber.Router, db *gorm.DB) {
	h := messagectrl.NewMessageController(db)

	r.Post("/", h.Send)
	r.Get("/inbox", h.Inbox)
	r.Get("/sent", h.Sent)
	r.Get("/unread-count", h.UnreadCount)
	r.Get("/contacts", h.Contacts)
	r.Get("/:id", h.Detail)
}
