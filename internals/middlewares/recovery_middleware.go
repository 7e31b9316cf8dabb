package middlewares

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"classroom_backend/internals/configs"
)

// RecoveryMiddleware: panic → 500, di-log dan dilaporkan ke rollbar
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			err, ok := e.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", e)
			}
			configs.Log().Error("panic recovered",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
				zap.StackSkip("stack", 3),
			)
			configs.ReportError(err, map[string]interface{}{
				"method": c.Method(),
				"path":   c.Path(),
			})
		},
	})
}
