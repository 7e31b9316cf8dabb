package middlewares

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"classroom_backend/internals/configs"
	helper "classroom_backend/internals/helpers"
)

// ErrorHandler: fiber.Error → JSON dengan kodenya; sisanya 500 tanpa detail
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return helper.JsonError(c, fe.Code, fe.Message)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Not found")
	}
	configs.Log().Error("unhandled error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	configs.ReportError(err, map[string]interface{}{
		"method": c.Method(),
		"path":   c.Path(),
	})
	return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
}
