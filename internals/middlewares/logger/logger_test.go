package logger

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"classroom_backend/internals/configs"
)

func newApp(t *testing.T) (*fiber.App, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := configs.Log()
	configs.SetLogger(zap.New(core))
	t.Cleanup(func() { configs.SetLogger(prev) })

	app := fiber.New()
	app.Use(LoggerMiddleware())
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocRequestID).(string))
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "nope")
	})
	return app, logs
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	app, logs := newApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ok", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	rid := resp.Header.Get(fiber.HeaderXRequestID)
	_, err = uuid.Parse(rid)
	require.NoError(t, err, "request id %q", rid)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, rid, entry.ContextMap()["request_id"])
}

func TestRequestIDEchoedAndErrorStatusLogged(t *testing.T) {
	app, logs := newApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/missing", nil)
	req.Header.Set(fiber.HeaderXRequestID, "abc-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "abc-123", resp.Header.Get(fiber.HeaderXRequestID))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.EqualValues(t, fiber.StatusNotFound, entry.ContextMap()["status"])
}
