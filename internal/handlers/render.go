package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"

	"github.com/jjenkins/nichefinder/internal/model"
	"github.com/jjenkins/nichefinder/internal/templates"
)

func render(c *fiber.Ctx, status int, page templ.Component) error {
	handler := adaptor.HTTPHandler(templ.Handler(page, templ.WithStatus(status)))
	return handler(c)
}

func isHTMX(c *fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}

func wantsCSV(c *fiber.Ctx) bool {
	return c.Query("format") == "csv"
}

// statusFor maps an error kind to the HTTP status it is shown with
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrMissingCredential):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, model.ErrEmptyInput), model.IsValidation(err):
		return fiber.StatusBadRequest
	case model.IsUpstream(err):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// alertFor turns a failed action into an in-page message and logs it
func alertFor(logger zerolog.Logger, err error) (int, *templates.Alert) {
	status := statusFor(err)
	switch status {
	case fiber.StatusBadRequest:
		logger.Warn().Err(err).Msg("invalid request")
		return status, &templates.Alert{Level: "warning", Message: capitalize(err.Error())}
	case fiber.StatusInternalServerError:
		logger.Error().Err(err).Msg("request failed")
		return status, &templates.Alert{Level: "error", Message: "Something went wrong. Please try again."}
	default:
		logger.Error().Err(err).Msg("request failed")
		return status, &templates.Alert{Level: "error", Message: capitalize(err.Error())}
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func intParam(c *fiber.Ctx, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &model.ValidationError{Field: name, Message: "must be a whole number"}
	}
	return n, nil
}

func uintParam(c *fiber.Ctx, name string) (uint64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, &model.ValidationError{Field: name, Message: "must be a non-negative whole number"}
	}
	return n, nil
}

func optionalUintParam(c *fiber.Ctx, name string) (*uint64, error) {
	if strings.TrimSpace(c.Query(name)) == "" {
		return nil, nil
	}
	n, err := uintParam(c, name)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func sendCSV(c *fiber.Ctx, filename string, write func(w *strings.Builder) error) error {
	var b strings.Builder
	if err := write(&b); err != nil {
		return err
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.SendString(b.String())
}
