// Package mcp serves the identity resource client to agents as MCP tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/mycelian/mycelian-identities/client"
	"github.com/mycelian/mycelian-identities/internal/clientconfig"
	"github.com/mycelian/mycelian-identities/mcp/internal/handlers"
)

// Transport names accepted by Config.Transport.
const (
	TransportAuto  = "auto"
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds the MCP server settings. Values come from environment
// variables prefixed with "IDENTITIES_MCP_"; the identity service connection
// itself is configured through clientconfig.
type Config struct {
	ServerName      string        `envconfig:"SERVER_NAME" default:"identities-mcp-server"`
	ServerVersion   string        `envconfig:"SERVER_VERSION" default:"0.1.0"`
	Addr            string        `envconfig:"ADDR" default:":11546"`
	Transport       string        `envconfig:"TRANSPORT" default:"auto"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	HTTPReadTimeout time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"5s"`
	HTTPIdleTimeout time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"120s"`
}

// LoadConfig reads the MCP settings from the environment.
func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process("IDENTITIES_MCP", &c); err != nil {
		return nil, fmt.Errorf("load mcp config: %w", err)
	}
	c.Transport = strings.ToLower(c.Transport)
	switch c.Transport {
	case TransportAuto, TransportStdio, TransportHTTP:
	default:
		return nil, fmt.Errorf("unknown transport %q", c.Transport)
	}
	return &c, nil
}

// NewServer builds an MCP server with every identity tool registered.
func NewServer(c *client.Client, name, version string) (*server.MCPServer, error) {
	s := server.NewMCPServer(name, version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	registerers := []struct {
		name string
		h    handlers.ToolRegisterer
	}{
		{"identity", handlers.NewIdentityHandler(c)},
		{"career", handlers.NewCareerHandler(c)},
		{"knowledge", handlers.NewKnowledgeHandler(c)},
		{"character", handlers.NewCharacterHandler(c)},
	}
	for _, r := range registerers {
		if err := r.h.RegisterTools(s); err != nil {
			return nil, fmt.Errorf("register %s tools: %w", r.name, err)
		}
	}
	return s, nil
}

// NewHTTPHandler serves s over the streamable HTTP transport at /mcp.
func NewHTTPHandler(s *server.MCPServer) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s,
		server.WithEndpointPath("/mcp"),
		server.WithHeartbeatInterval(30*time.Second),
	)
}

// Run serves until ctx is cancelled or the transport fails.
func Run(ctx context.Context, cfg *Config, clientCfg *clientconfig.Config) error {
	c, err := clientCfg.NewClient()
	if err != nil {
		return fmt.Errorf("create identity client: %w", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Error().Err(err).Msg("close identity client")
		}
	}()
	log.Info().Str("base_url", c.BaseURL()).Msg("identity client ready")

	s, err := NewServer(c, cfg.ServerName, cfg.ServerVersion)
	if err != nil {
		return err
	}

	if useStdio(cfg.Transport) {
		log.Info().Msg("starting identities MCP server (stdio transport)")
		err := server.NewStdioServer(s).Listen(ctx, os.Stdin, os.Stdout)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
	return serveHTTP(ctx, cfg, s)
}

func serveHTTP(ctx context.Context, cfg *Config, s *server.MCPServer) error {
	streamSrv := NewHTTPHandler(s)
	srv := &http.Server{
		Addr:        cfg.Addr,
		Handler:     streamSrv,
		ReadTimeout: cfg.HTTPReadTimeout,
		// SSE streams have no write deadline.
		WriteTimeout: 0,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("starting identities MCP server (streamable HTTP)")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	if err := streamSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mcp streamable server shutdown")
	}
	log.Info().Msg("MCP server shutdown complete")
	return <-errCh
}

// useStdio resolves the auto transport: stdio when stdin is not a terminal,
// which is how MCP hosts launch servers.
func useStdio(transport string) bool {
	switch transport {
	case TransportStdio:
		return true
	case TransportHTTP:
		return false
	}
	if fi, err := os.Stdin.Stat(); err == nil {
		return fi.Mode()&os.ModeCharDevice == 0
	}
	return false
}
