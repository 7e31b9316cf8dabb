package auth

import (
	"github.com/gofiber/fiber/v2"

	"classroom_backend/internals/constants"
	helper "classroom_backend/internals/helpers"
	helperAuth "classroom_backend/internals/helpers/auth"
)

// RoleMiddlewareWithCustomError: actor harus punya salah satu role (dan profilnya).
// Unassigned tidak pernah lolos.
func RoleMiddlewareWithCustomError(allowedRoles []constants.Role, customForbiddenMessage string) fiber.Handler {
	if customForbiddenMessage == "" {
		customForbiddenMessage = constants.ErrAccessDenied
	}
	return func(c *fiber.Ctx) error {
		a, err := helperAuth.GetActor(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - missing role information")
		}
		for _, allowed := range allowedRoles {
			if a.Role == allowed && allowed != constants.RoleUnassigned {
				return c.Next()
			}
		}
		return helper.JsonError(c, fiber.StatusForbidden, customForbiddenMessage)
	}
}

// RequireRole: 403 "access denied"
func RequireRole(roles ...constants.Role) fiber.Handler {
	return RoleMiddlewareWithCustomError(roles, constants.ErrAccessDenied)
}

// OnlyRoles: shortcut dengan pesan custom
func OnlyRoles(customMessage string, roles ...constants.Role) fiber.Handler {
	return RoleMiddlewareWithCustomError(roles, customMessage)
}
