package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jjenkins/nichefinder/internal/templates"
)

// Suggester returns keyword completions for a partial query
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]string, error)
}

// SuggestHandler answers HTMX requests with a fragment and everything else
// with a JSON list. Suggestions are never cached.
func SuggestHandler(suggester Suggester, logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		suggestions, err := suggester.Suggest(c.UserContext(), c.Query("q"))
		if err != nil {
			logger.Error().Err(err).Msg("keyword suggestions failed")
			if isHTMX(c) {
				return render(c, fiber.StatusOK, templates.Suggestions(nil))
			}
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
		}

		if isHTMX(c) {
			return render(c, fiber.StatusOK, templates.Suggestions(suggestions))
		}
		return c.JSON(suggestions)
	}
}
