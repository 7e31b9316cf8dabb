package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentctrl "classroom_backend/internals/features/finance/payments/controller"
	"classroom_backend/internals/features/finance/payments/service"
)

func PaymentStudentRoutes(student fiber.Router, db *gorm.DB, svc *service.PaymentService) {
	h := paymentctrl.NewPaymentController(db, svc)
	student.Post("/enrollments/:id/checkout", h.Checkout)
	student.Get("/payments", h.Mine)
}

func PaymentAdminRoutes(admin fiber.Router, db *gorm.DB, svc *service.PaymentService) {
	h := paymentctrl.NewPaymentController(db, svc)
	admin.Get("/payments", h.AdminList)
}

// PaymentWebhookRoutes: base /api, tanpa auth (keamanan lewat signature)
func PaymentWebhookRoutes(api fiber.Router, db *gorm.DB, svc *service.PaymentService) {
	h := paymentctrl.NewPaymentController(db, svc)
	api.Get("/payments/midtrans/webhook", h.NotificationPing)
	api.Post("/payments/midtrans/webhook", h.Notification)
}
