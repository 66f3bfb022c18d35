// Package identityservice wires the reference identity service: config,
// logger, store, health, router and the HTTP server.
package identityservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mycelian/mycelian-identities/server/internal/api"
	"github.com/mycelian/mycelian-identities/server/internal/auth"
	"github.com/mycelian/mycelian-identities/server/internal/config"
	"github.com/mycelian/mycelian-identities/server/internal/factory"
	"github.com/mycelian/mycelian-identities/server/internal/health"
	"github.com/mycelian/mycelian-identities/server/internal/logger"
	"github.com/mycelian/mycelian-identities/server/internal/store"
)

const (
	healthInterval     = 15 * time.Second
	healthProbeTimeout = 2 * time.Second
)

// Options override settings normally read from the environment.
type Options struct {
	HTTPPort int
	DBDriver string
	LogLevel string
}

// Run starts the identity service HTTP server and blocks until SIGINT/SIGTERM
// or a server error.
func Run(opts Options) error {
	ctx, stop := newServerContext()
	defer stop()
	return RunContext(ctx, opts)
}

// RunContext is Run with a caller-controlled lifetime.
func RunContext(ctx context.Context, opts Options) error {
	log := logger.New("identity-service", logger.WithLevel(opts.LogLevel))

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	if opts.HTTPPort != 0 {
		cfg.HTTPPort = opts.HTTPPort
	}
	if opts.DBDriver != "" && opts.DBDriver != cfg.DBDriver {
		cfg.DBDriver = opts.DBDriver
		if err := cfg.ResolveDefaults(); err != nil {
			log.Error().Err(err).Msg("Invalid db-driver override")
			return err
		}
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Bool("dev_mode", cfg.DevMode).
		Msg("Identity service starting")

	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return err
	}
	defer st.Close()

	svcHealth := startHealthCheckers(ctx, log, st)
	router := api.NewRouter(api.Deps{
		Store:      st,
		Authorizer: auth.NewAuthorizer(cfg),
		IsHealthy:  svcHealth.IsHealthy,
		Log:        log,
	})

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// startHealthCheckers probes the store and aggregates it into the service flag.
func startHealthCheckers(ctx context.Context, log zerolog.Logger, st store.Store) *health.ServiceHealthChecker {
	storeChecker := health.NewPingChecker("store", st, log, healthProbeTimeout)
	storeChecker.Check(ctx)
	go storeChecker.Start(ctx, healthInterval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	go svcHealth.Start(ctx, time.Second)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listen %s: %w", server.Addr, err)
		}
	}()
	return errCh
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
