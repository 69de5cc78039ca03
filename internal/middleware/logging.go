package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/badsession/badsession/internal/metrics"
)

// settle runs the rest of the chain and, if it failed, renders the error
// through the app's error handler so the final status is known here.
func settle(c *fiber.Ctx) {
	if err := c.Next(); err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}
}

// RequestLogger logs every request after it completes.
func RequestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		settle(c)

		status := c.Response().StatusCode()
		attrs := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"user_id", UserID(c),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("Request failed", attrs...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("Request rejected", attrs...)
		default:
			logger.Info("Request completed", attrs...)
		}
		return nil
	}
}

// Metrics records request counts and latency by route pattern.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		settle(c)

		m.ObserveRequest(c.Method(), c.Route().Path, c.Response().StatusCode(), time.Since(start))
		return nil
	}
}
