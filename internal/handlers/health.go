package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jjenkins/nichefinder/internal/metrics"
)

func HealthHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendString("ok")
	}
}

func MetricsHandler(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(metrics.Handler(gatherer))
}
