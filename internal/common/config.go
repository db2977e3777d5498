package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for finch. Nothing here is process-global:
// the loaded Config is passed into component constructors so tests can
// build isolated instances.
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Auth        AuthConfig    `toml:"auth"`
	Upload      UploadConfig  `toml:"upload"`
	Clients     ClientsConfig `toml:"clients"`
	Events      EventsConfig  `toml:"events"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	RateLimit int    `toml:"rate_limit"` // requests per second per client IP, 0 disables
}

// StorageConfig holds the SQLite database location.
type StorageConfig struct {
	Path string `toml:"path"`
}

// AuthConfig holds JWT signing configuration.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "168h" (7 days)
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 168 * time.Hour
	}
	return d
}

// UploadConfig holds receipt upload configuration.
type UploadConfig struct {
	Dir        string `toml:"dir"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	PublicPath string `toml:"public_path"` // URL prefix uploads are served under
}

// MaxSizeBytes returns the upload ceiling in bytes, defaulting to 10MB.
func (c *UploadConfig) MaxSizeBytes() int64 {
	if c.MaxSizeMB <= 0 {
		return 10 << 20
	}
	return int64(c.MaxSizeMB) << 20
}

// ClientsConfig holds external collaborator configuration.
type ClientsConfig struct {
	Gemini   GeminiConfig   `toml:"gemini"`
	Currency CurrencyConfig `toml:"currency"`
}

// GeminiConfig holds Gemini API configuration.
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// CurrencyConfig holds exchange-rate API configuration.
type CurrencyConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration.
func (c *CurrencyConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// EventsConfig holds the optional AMQP notification event publisher
// configuration. An empty URL disables publishing.
type EventsConfig struct {
	AMQPURL  string `toml:"amqp_url"`
	Exchange string `toml:"exchange"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible development defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			RateLimit: 50,
		},
		Storage: StorageConfig{
			Path: "data/finch.db",
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "168h",
		},
		Upload: UploadConfig{
			Dir:        "data/uploads",
			MaxSizeMB:  10,
			PublicPath: "/uploads",
		},
		Clients: ClientsConfig{
			Gemini: GeminiConfig{
				Model: "gemini-3-flash-preview",
			},
			Currency: CurrencyConfig{
				BaseURL:   "https://api.frankfurter.dev/v1",
				RateLimit: 5,
				Timeout:   "30s",
			},
		},
		Events: EventsConfig{
			Exchange: "finch.notifications",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from TOML files with environment
// overrides. Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides applies FINCH_* environment variable overrides.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINCH_ENV"); env != "" {
		config.Environment = env
	}
	if host := os.Getenv("FINCH_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("FINCH_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if level := os.Getenv("FINCH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if path := os.Getenv("FINCH_DB_PATH"); path != "" {
		config.Storage.Path = path
	}
	if dir := os.Getenv("FINCH_UPLOAD_DIR"); dir != "" {
		config.Upload.Dir = dir
	}
	if v := os.Getenv("FINCH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("FINCH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
	if v := os.Getenv("FINCH_GEMINI_API_KEY"); v != "" {
		config.Clients.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && config.Clients.Gemini.APIKey == "" {
		config.Clients.Gemini.APIKey = v
	}
	if v := os.Getenv("FINCH_AMQP_URL"); v != "" {
		config.Events.AMQPURL = v
	}
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
