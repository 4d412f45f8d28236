package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/jjenkins/nichefinder/internal/handlers"
	"github.com/jjenkins/nichefinder/internal/metrics"
	"github.com/jjenkins/nichefinder/internal/model"
	"github.com/jjenkins/nichefinder/internal/service"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the niche finder web dashboard",
	Long:  `Start the web dashboard for keyword research, video niche scoring and channel growth tracking.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to run the server on (default from config, 8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if port == "" {
		port = cfg.Port
	}

	ctx, cancel := signalContext()
	defer cancel()

	snapshots, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.NewCollector(reg)

	deps := handlers.Dependencies{
		Suggester: service.NewSuggestClient(cfg.SuggestEndpoint, cfg.HTTPTimeout, rec, logger),
		Snapshots: snapshots,
		Analyzer:  service.NewGrowthAnalyzer(snapshots, logger),
		Gatherer:  reg,
		Logger:    logger,
	}

	// Searches stay unavailable, not fatal, until a key is configured
	client, err := newYouTubeClient(ctx, rec)
	switch {
	case errors.Is(err, model.ErrMissingCredential):
		logger.Warn().Msg("API_KEY not set; video and channel searches are disabled")
	case err != nil:
		return err
	default:
		deps.Videos = service.NewVideoFetcher(client, logger)
		deps.Channels = service.NewChannelFetcher(client, snapshots, rec, cfg.DedupeSameDay, logger)
	}

	app := fiber.New(fiber.Config{
		AppName:               "Niche Finder",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	handlers.Register(app, deps)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	logger.Info().Str("port", port).Str("store", cfg.StoreBackend).Msg("starting server")
	if err := app.Listen(":" + port); err != nil {
		return err
	}
	return nil
}
