package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"classroom_backend/internals/configs"
	authService "classroom_backend/internals/features/users/auth/service"
	helper "classroom_backend/internals/helpers"
	helperAuth "classroom_backend/internals/helpers/auth"
)

// AuthMiddleware: token (Bearer / cookie access_token) → Actor di Locals.
// Role di-resolve sekali di sini; handler cukup baca helperAuth.GetActor.
func AuthMiddleware(svc *authService.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := helper.GetRawAccessToken(c)
		if raw == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - missing token")
		}
		_, actor, err := svc.Authenticate(c.UserContext(), raw)
		if err != nil {
			var fe *fiber.Error
			if !errors.As(err, &fe) {
				configs.Log().Error("authenticate request", zap.Error(err))
				return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
			}
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		helperAuth.SetActor(c, actor)
		helper.SetRawAccessToken(c, raw)
		return c.Next()
	}
}
