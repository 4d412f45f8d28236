// Package config loads nichefinder settings from an optional config file,
// the process environment and a local .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jjenkins/nichefinder/internal/model"
)

const (
	BackendCSV      = "csv"
	BackendPostgres = "postgres"
)

// Config holds every tunable of the tool. It is read once and treated as immutable.
type Config struct {
	APIKey          string        `mapstructure:"api_key"`
	SuggestEndpoint string        `mapstructure:"suggest_endpoint"`
	APIEndpoint     string        `mapstructure:"api_endpoint"`
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryBackoff    time.Duration `mapstructure:"retry_backoff"`

	StoreBackend  string `mapstructure:"store_backend"`
	SnapshotPath  string `mapstructure:"snapshot_path"`
	DatabaseURL   string `mapstructure:"database_url"`
	DedupeSameDay bool   `mapstructure:"dedupe_same_day"`

	Port      string `mapstructure:"port"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// env maps config keys to the environment variables that override them
var env = map[string]string{
	"api_key":          "API_KEY",
	"suggest_endpoint": "SUGGEST_ENDPOINT",
	"api_endpoint":     "YOUTUBE_API_ENDPOINT",
	"http_timeout":     "HTTP_TIMEOUT",
	"max_retries":      "MAX_RETRIES",
	"retry_backoff":    "RETRY_BACKOFF",
	"store_backend":    "STORE_BACKEND",
	"snapshot_path":    "SNAPSHOT_PATH",
	"database_url":     "DATABASE_URL",
	"dedupe_same_day":  "DEDUPE_SAME_DAY",
	"port":             "PORT",
	"log_level":        "LOG_LEVEL",
	"log_format":       "LOG_FORMAT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")
	v.SetDefault("suggest_endpoint", "http://suggestqueries.google.com/complete/search")
	v.SetDefault("api_endpoint", "")
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("max_retries", 0)
	v.SetDefault("retry_backoff", time.Second)
	v.SetDefault("store_backend", BackendCSV)
	v.SetDefault("snapshot_path", "channel_snapshots.csv")
	v.SetDefault("database_url", "")
	v.SetDefault("dedupe_same_day", false)
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// Load reads configuration. configPath may be empty, in which case only the
// environment and defaults are used. A .env file in the working directory is
// loaded first if it exists; variables already set are not overridden.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	for key, name := range env {
		if err := v.BindEnv(key, name); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", name, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks settings that would otherwise fail late
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendCSV:
		if c.SnapshotPath == "" {
			return fmt.Errorf("snapshot_path cannot be empty")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store_backend %q", c.StoreBackend)
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}
	if c.MaxRetries > 0 && c.RetryBackoff <= 0 {
		return fmt.Errorf("retry_backoff must be positive when retries are enabled")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// RequireAPIKey returns model.ErrMissingCredential when no key is configured.
// Call it before constructing anything that talks to the video API.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return model.ErrMissingCredential
	}
	return nil
}
