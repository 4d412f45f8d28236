package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jjenkins/nichefinder/internal/model"
	"github.com/jjenkins/nichefinder/internal/service"
	"github.com/jjenkins/nichefinder/internal/templates"
)

const defaultMaxResults = 10

// VideoSearcher runs a scored video search
type VideoSearcher interface {
	Fetch(ctx context.Context, q service.VideoQuery) ([]model.VideoRecord, error)
}

// VideosHandler renders the niche search. searcher is nil when no API key is
// configured, which is reported before the keyword is looked at.
//
// A CSV request carrying the result id of a recent search exports that
// search's rows. Without one, or once the id has been evicted, the search
// runs again.
func VideosHandler(searcher VideoSearcher, logger zerolog.Logger) fiber.Handler {
	results := newRecentResults(recentResultsLimit)

	return func(c *fiber.Ctx) error {
		if wantsCSV(c) {
			if res, ok := results.get(c.Query("result")); ok {
				return sendCSV(c, service.VideosFilename(res.query.Keyword), func(w *strings.Builder) error {
					return service.WriteVideosCSV(w, res.records)
				})
			}
		}

		data := templates.VideosData{
			Query: service.VideoQuery{
				Keyword:    c.Query("keyword"),
				MaxResults: defaultMaxResults,
			},
		}

		// first visit shows the empty form
		if !c.Context().QueryArgs().Has("keyword") {
			return render(c, fiber.StatusOK, templates.Videos(data))
		}

		var err error
		if searcher == nil {
			err = model.ErrMissingCredential
		}
		if err == nil {
			data.Query.MaxResults, err = intParam(c, "max", defaultMaxResults)
		}
		if err == nil {
			data.Query.RecentDays, err = intParam(c, "recent_days", 0)
		}
		if err == nil {
			data.Records, err = searcher.Fetch(c.UserContext(), data.Query)
		}
		if err != nil {
			status, alert := alertFor(logger, err)
			data.Alert = alert
			return render(c, status, templates.Videos(data))
		}

		if wantsCSV(c) {
			return sendCSV(c, service.VideosFilename(data.Query.Keyword), func(w *strings.Builder) error {
				return service.WriteVideosCSV(w, data.Records)
			})
		}

		if len(data.Records) == 0 {
			data.Alert = &templates.Alert{Level: "info", Message: "No videos found for this filter."}
		} else {
			data.Alert = &templates.Alert{Level: "info", Message: "Analysis complete!"}
			data.ResultID = results.put(data.Query, data.Records)
		}
		return render(c, fiber.StatusOK, templates.Videos(data))
	}
}
