package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jjenkins/nichefinder/internal/service"
	"github.com/jjenkins/nichefinder/internal/templates"
)

func HomeHandler(analyzer *service.GrowthAnalyzer, logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data := templates.HomeData{}

		summary, err := analyzer.Summary(c.UserContext())
		if err != nil {
			logger.Error().Err(err).Msg("error loading snapshot summary")
			data.Alert = &templates.Alert{Level: "error", Message: "Snapshot history is unavailable."}
		}
		data.Summary = summary

		return render(c, fiber.StatusOK, templates.Home(data))
	}
}
