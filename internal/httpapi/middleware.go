package httpapi

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/gofiber/fiber/v2"
)

// requestLogger logs every request and counts it by route and status.
// Errors are rendered here so that the final status code is known.
func requestLogger(log *slog.Logger, appMetrics *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		appMetrics.HTTPRequests.WithLabelValues(c.Route().Path, strconv.Itoa(status)).Inc()
		log.DebugContext(c.UserContext(), "Request handled",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", time.Since(start),
		)

		return nil
	}
}
