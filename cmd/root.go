package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jjenkins/nichefinder/internal/config"
	"github.com/jjenkins/nichefinder/internal/logging"
)

var (
	configPath string
	logLevel   string

	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "nichefinder",
	Short: "Find under-served video niches and track channel growth",
	Long: `nichefinder searches the video platform for a keyword, scores every hit by
how far it reaches beyond its channel's audience, and snapshots channel
statistics over time so their growth can be compared.

Set API_KEY (or api_key in a config file) before running searches.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logger = logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
		return nil
	},
}

// Execute runs the root command. Failures print a message and exit non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a config file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			logger.Warn().Msg("received interrupt signal, shutting down")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
