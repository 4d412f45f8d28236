package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/jjenkins/nichefinder/internal/service"
	"github.com/jjenkins/nichefinder/internal/store"
)

// Dependencies are the services behind the dashboard routes. Videos and
// Channels are nil when no API key is configured.
type Dependencies struct {
	Suggester Suggester
	Videos    VideoSearcher
	Channels  ChannelSearcher
	Snapshots store.SnapshotStore
	Analyzer  *service.GrowthAnalyzer
	Gatherer  prometheus.Gatherer
	Logger    zerolog.Logger
}

// Register mounts every dashboard route on app
func Register(app *fiber.App, d Dependencies) {
	app.Get("/", HomeHandler(d.Analyzer, d.Logger))
	app.Get("/suggest", SuggestHandler(d.Suggester, d.Logger))

	// Search routes
	app.Get("/videos", VideosHandler(d.Videos, d.Logger))
	app.Get("/channels", ChannelsHandler(d.Channels, d.Snapshots, d.Logger))
	app.Get("/channels/:id", ChannelDetailHandler(d.Analyzer))

	// Growth route
	app.Get("/growth", GrowthHandler(d.Analyzer, d.Logger))

	app.Get("/healthz", HealthHandler())
	if d.Gatherer != nil {
		app.Get("/metrics", MetricsHandler(d.Gatherer))
	}
}
