package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "classroom_backend/internals/features/users/auth/controller"
	"classroom_backend/internals/features/users/auth/service"
	rateLimiter "classroom_backend/internals/middlewares"
	authMiddleware "classroom_backend/internals/middlewares/auth"
)

// AuthRoutes: base /api/auth
func AuthRoutes(app fiber.Router, db *gorm.DB, svc *service.AuthService) {
	authController := controller.NewAuthController(db, svc)

	baseAuth := app.Group("/api/auth")

	// 🔓 publik
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/login-google", rateLimiter.LoginRateLimiter(), authController.LoginGoogle)
	baseAuth.Post("/register", rateLimiter.RegisterRateLimiter(), authController.Register)
	baseAuth.Post("/refresh-token", authController.RefreshToken)
	// logout tidak wajib token valid (idempotent)
	baseAuth.Post("/logout", authController.Logout)

	// 🔐 butuh login, role apa pun (termasuk unassigned)
	authMW := authMiddleware.AuthMiddleware(svc)
	baseAuth.Get("/me", authMW, authController.Me)
	baseAuth.Post("/change-password", authMW, authController.ChangePassword)
}
