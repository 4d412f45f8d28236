package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jjenkins/nichefinder/internal/service"
	"github.com/jjenkins/nichefinder/internal/templates"
)

const defaultTimeframe = 7

func GrowthHandler(analyzer *service.GrowthAnalyzer, logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data := templates.GrowthData{
			Query: service.GrowthQuery{Timeframe: defaultTimeframe},
		}

		err := parseGrowthQuery(c, &data.Query)
		if err == nil {
			data.Records, err = analyzer.Analyze(c.UserContext(), data.Query)
		}
		if err != nil {
			status, alert := alertFor(logger, err)
			data.Alert = alert
			return render(c, status, templates.Growth(data))
		}

		if wantsCSV(c) {
			return sendCSV(c, service.GrowthFilename, func(w *strings.Builder) error {
				return service.WriteGrowthCSV(w, data.Records)
			})
		}

		if len(data.Records) == 0 {
			data.Alert = &templates.Alert{
				Level:   "info",
				Message: fmt.Sprintf("No tracked channel has a snapshot older than %d days that matches these filters.", data.Query.Timeframe),
			}
		}
		return render(c, fiber.StatusOK, templates.Growth(data))
	}
}

func parseGrowthQuery(c *fiber.Ctx, q *service.GrowthQuery) error {
	var err error
	if q.Timeframe, err = intParam(c, "timeframe", defaultTimeframe); err != nil {
		return err
	}

	fields := []struct {
		name string
		dst  *uint64
	}{
		{"min_subs", &q.Subscribers.Min},
		{"min_videos", &q.Videos.Min},
		{"min_views", &q.MinViews},
	}
	for _, f := range fields {
		if *f.dst, err = uintParam(c, f.name); err != nil {
			return err
		}
	}

	// a blank max leaves the range open; "0" is a real bound
	if q.Subscribers.Max, err = optionalUintParam(c, "max_subs"); err != nil {
		return err
	}
	q.Videos.Max, err = optionalUintParam(c, "max_videos")
	return err
}
