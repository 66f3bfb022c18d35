// Package clientconfig loads configuration shared by the identity CLI and
// the MCP server.
package clientconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mycelian/mycelian-identities/client"
)

// Config holds client-side configuration. Values come from environment
// variables with the prefix "IDENTITIES_", after any .env file is loaded.
type Config struct {
	BaseURL     string        `envconfig:"BASE_URL" default:"http://localhost:8000"`
	Token       string        `envconfig:"TOKEN"`
	TokenFile   string        `envconfig:"TOKEN_FILE"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	Debug       bool          `envconfig:"DEBUG" default:"false"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	ProjectID   string        `envconfig:"PROJECT_ID"`
	DevMode     bool          `envconfig:"DEV_MODE" default:"false"`
}

// Load reads .env files (when present) and then the environment.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load(envFiles...)

	var c Config
	if err := envconfig.Process("IDENTITIES", &c); err != nil {
		return nil, fmt.Errorf("load client config: %w", err)
	}
	if c.TokenFile == "" {
		c.TokenFile = defaultTokenFile()
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return &c, nil
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mycelian-identities", "token")
}

// TokenSource picks the credential: an explicit IDENTITIES_TOKEN wins,
// otherwise the token file is read on every request.
func (c *Config) TokenSource() client.TokenSource {
	if c.Token != "" {
		return client.StaticToken(c.Token)
	}
	return client.FileTokenSource{Path: c.TokenFile}
}

// NewClient builds a resource client from the configuration.
func (c *Config) NewClient() (*client.Client, error) {
	opts := []client.Option{client.WithHTTPTimeout(c.HTTPTimeout)}
	if c.Debug {
		opts = append(opts, client.WithDebugLogging(true))
	}
	if c.DevMode && c.Token == "" {
		return client.NewWithDevMode(c.BaseURL, opts...)
	}
	return client.New(c.BaseURL, c.TokenSource(), opts...)
}

// Level parses LogLevel, defaulting to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Init configures logging and records the effective settings.
func (c *Config) Init() {
	InitLogger()
	SetLogLevel(c.Level())

	log.Debug().
		Str("base_url", c.BaseURL).
		Str("token_file", c.TokenFile).
		Bool("token_from_env", c.Token != "").
		Str("log_level", c.Level().String()).
		Msg("client configuration loaded")
}
