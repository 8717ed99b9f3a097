package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request. Errors are returned unchanged
// so the app-level error handler still shapes the response.
func RequestLogger(logger *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		fields := []any{
			"method", c.Method(),
			"path", c.Path(),
			"ip", c.IP(),
			"status", c.Response().StatusCode(),
			"latency", latency,
		}
		if err != nil {
			logger.Errorw("request failed", append(fields, "error", err)...)
			return err
		}
		logger.Infow("request completed", fields...)
		return nil
	}
}
