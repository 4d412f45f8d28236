package cmd

import (
	"context"

	"github.com/jjenkins/nichefinder/internal/config"
	"github.com/jjenkins/nichefinder/internal/metrics"
	"github.com/jjenkins/nichefinder/internal/service"
	"github.com/jjenkins/nichefinder/internal/store"
)

// openStore opens the configured snapshot store
func openStore(ctx context.Context) (store.SnapshotStore, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		logger.Debug().Msg("connecting to database")
		db, err := store.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store.NewPostgresStore(db), nil
	default:
		return store.NewCSVStore(cfg.SnapshotPath, logger), nil
	}
}

// newYouTubeClient checks the credential before building the API client
func newYouTubeClient(ctx context.Context, rec metrics.Recorder) (*service.YouTubeClient, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	return service.NewYouTubeClient(ctx, service.YouTubeConfig{
		APIKey:     cfg.APIKey,
		Endpoint:   cfg.APIEndpoint,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
		Backoff:    cfg.RetryBackoff,
	}, rec, logger)
}
