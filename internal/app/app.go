// Package app wires configuration, storage, clients, and services into
// the shared core used by cmd/finch-server and cmd/finch-admin.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/finchapp/finch/internal/auth"
	"github.com/finchapp/finch/internal/clients/frankfurter"
	"github.com/finchapp/finch/internal/clients/gemini"
	"github.com/finchapp/finch/internal/common"
	"github.com/finchapp/finch/internal/events"
	"github.com/finchapp/finch/internal/interfaces"
	"github.com/finchapp/finch/internal/services/insights"
	"github.com/finchapp/finch/internal/storage/sqlite"
)

// App holds all initialized services and clients.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Store       interfaces.Store
	Tokens      *auth.TokenService
	AIClient    interfaces.AIClient
	Currency    interfaces.CurrencyClient
	Insights    *insights.Service
	Events      interfaces.EventPublisher
	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services from configuration.
// configPath may be empty, in which case FINCH_CONFIG and then the binary
// directory are consulted.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("FINCH_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "finch.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/finch.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative data paths to the binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}
	if config.Upload.Dir != "" && !filepath.IsAbs(config.Upload.Dir) {
		config.Upload.Dir = filepath.Join(binDir, config.Upload.Dir)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	store, err := sqlite.New(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	a := &App{
		Config:      config,
		Logger:      logger,
		Store:       store,
		Tokens:      auth.NewTokenService(config.Auth.JWTSecret, config.Auth.GetTokenExpiry()),
		StartupTime: time.Now(),
	}

	ctx := context.Background()

	if config.Clients.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewClient(ctx, config.Clients.Gemini.APIKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini client init failed - AI features will be unavailable")
		} else {
			a.AIClient = geminiClient
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured - AI features will be unavailable")
	}

	a.Currency = frankfurter.NewClient(
		frankfurter.WithLogger(logger),
		frankfurter.WithBaseURL(config.Clients.Currency.BaseURL),
		frankfurter.WithRateLimit(config.Clients.Currency.RateLimit),
		frankfurter.WithTimeout(config.Clients.Currency.GetTimeout()),
	)

	a.Insights = insights.NewService(store, a.AIClient, logger)

	if config.Events.AMQPURL != "" {
		publisher, err := events.NewPublisher(config.Events.AMQPURL, config.Events.Exchange, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("AMQP publisher init failed - notification events disabled")
		} else {
			a.Events = publisher
			logger.Info().Str("exchange", config.Events.Exchange).Msg("Notification event publisher connected")
		}
	}

	logger.Info().
		Str("environment", config.Environment).
		Str("db", config.Storage.Path).
		Bool("ai", a.AIClient != nil).
		Bool("events", a.Events != nil).
		Msg("Application initialized")

	return a, nil
}

// Close releases storage and broker connections.
func (a *App) Close() error {
	if a.Events != nil {
		if err := a.Events.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event publisher")
		}
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
