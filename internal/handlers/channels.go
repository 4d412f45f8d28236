package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jjenkins/nichefinder/internal/model"
	"github.com/jjenkins/nichefinder/internal/service"
	"github.com/jjenkins/nichefinder/internal/store"
	"github.com/jjenkins/nichefinder/internal/templates"
)

// ChannelSearcher runs a channel search and records the snapshots
type ChannelSearcher interface {
	Fetch(ctx context.Context, keyword string, maxResults int) (*service.ChannelResult, error)
}

// ChannelsHandler runs a channel search and snapshot. searcher is nil when no
// API key is configured. With format=csv it exports the latest snapshots of
// the channels listed in ids instead of fetching again, so a download never
// appends rows.
func ChannelsHandler(searcher ChannelSearcher, snapshots store.SnapshotStore, logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if wantsCSV(c) {
			return exportChannels(c, snapshots)
		}

		data := templates.ChannelsData{
			Keyword:    c.Query("keyword"),
			MaxResults: defaultMaxResults,
		}
		if !c.Context().QueryArgs().Has("keyword") {
			return render(c, fiber.StatusOK, templates.Channels(data))
		}

		var (
			result *service.ChannelResult
			err    error
		)
		if searcher == nil {
			err = model.ErrMissingCredential
		}
		if err == nil {
			data.MaxResults, err = intParam(c, "max", defaultMaxResults)
		}
		if err == nil {
			result, err = searcher.Fetch(c.UserContext(), data.Keyword, data.MaxResults)
		}
		if err != nil {
			status, alert := alertFor(logger, err)
			data.Alert = alert
			return render(c, status, templates.Channels(data))
		}

		data.Channels = result.Channels
		data.Appended = result.Appended
		switch {
		case len(result.Channels) == 0:
			data.Alert = &templates.Alert{Level: "info", Message: "No channels found for this keyword."}
		case result.Skipped > 0:
			data.Alert = &templates.Alert{Level: "info", Message: "Some channels were already snapshotted today and were not recorded again."}
		default:
			data.Alert = &templates.Alert{Level: "info", Message: "Snapshot saved."}
		}
		return render(c, fiber.StatusOK, templates.Channels(data))
	}
}

func exportChannels(c *fiber.Ctx, snapshots store.SnapshotStore) error {
	var ids []string
	for _, id := range strings.Split(c.Query("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	rows, err := snapshots.ReadAll(c.UserContext())
	if err != nil {
		return err
	}

	latest := make(map[string]model.SnapshotRow, len(ids))
	for _, r := range rows {
		if prev, ok := latest[r.ChannelID]; !ok || !r.Date.Before(prev.Date) {
			latest[r.ChannelID] = r
		}
	}

	channels := make([]model.ChannelRecord, 0, len(ids))
	for _, id := range ids {
		if r, ok := latest[id]; ok {
			channels = append(channels, r.ChannelRecord)
		}
	}

	return sendCSV(c, service.ChannelsFilename, func(w *strings.Builder) error {
		return service.WriteChannelsCSV(w, channels)
	})
}

func ChannelDetailHandler(analyzer *service.GrowthAnalyzer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		channelID := c.Params("id")

		history, err := analyzer.History(c.UserContext(), channelID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading snapshots")
		}
		if len(history) == 0 {
			return render(c, fiber.StatusNotFound, templates.ChannelDetail(channelID, history))
		}

		return render(c, fiber.StatusOK, templates.ChannelDetail(channelID, history))
	}
}
