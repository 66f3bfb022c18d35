package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the identity service.
// Environment variables are parsed from the IDENTITY_SERVICE_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8000"`

	// Storage: sqlite (local file) or postgres
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:""`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Auth: comma separated bearer tokens; dev mode also accepts the dev token
	APITokens []string `envconfig:"API_TOKENS"`
	DevMode   bool     `envconfig:"DEV_MODE" default:"false"`

	// Maximum time spent retrying the store connection at startup
	BootstrapTimeout time.Duration `envconfig:"BOOTSTRAP_TIMEOUT" default:"30s"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// ResolveDefaults validates DBDriver and derives the SQLite path when unset.
func (c *Config) ResolveDefaults() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			c.SQLitePath = filepath.Join(".", "data", "identities.db")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("DB_DRIVER=postgres requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}

	tokens := c.APITokens[:0]
	for _, t := range c.APITokens {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	c.APITokens = tokens
	if len(c.APITokens) == 0 && !c.DevMode {
		return fmt.Errorf("no API_TOKENS configured and DEV_MODE is off")
	}
	if c.DevMode && c.IsProduction() {
		return fmt.Errorf("DEV_MODE is not allowed in production")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Example: IDENTITY_SERVICE_HTTP_PORT, IDENTITY_SERVICE_DB_DRIVER
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("IDENTITY_SERVICE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Bool("dev_mode", cfg.DevMode).
		Int("api_tokens", len(cfg.APITokens)).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting(sqlitePath string) *Config {
	return &Config{
		Environment:      EnvTesting,
		HTTPPort:         0,
		DBDriver:         "sqlite",
		SQLitePath:       sqlitePath,
		DevMode:          true,
		BootstrapTimeout: 5 * time.Second,
		ShutdownTimeout:  time.Second,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
