package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/mycelian/mycelian-identities/server/internal/config"
	"github.com/mycelian/mycelian-identities/server/internal/store"
	"github.com/mycelian/mycelian-identities/server/internal/store/postgres"
	"github.com/mycelian/mycelian-identities/server/internal/store/sqlite"
	"github.com/mycelian/mycelian-identities/server/internal/store/sqlstore"
)

// opener opens and migrates one store backend.
type opener func(ctx context.Context) (*sqlstore.DB, error)

// NewStore opens the store named by cfg.DBDriver, retrying with exponential
// backoff for up to cfg.BootstrapTimeout.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	var open opener
	switch cfg.DBDriver {
	case "sqlite":
		open = func(ctx context.Context) (*sqlstore.DB, error) { return sqlite.New(ctx, cfg.SQLitePath) }
	case "postgres":
		open = func(ctx context.Context) (*sqlstore.DB, error) { return postgres.New(ctx, cfg.PostgresDSN) }
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
	return bootstrap(ctx, cfg, log, open)
}

func bootstrap(ctx context.Context, cfg *config.Config, log zerolog.Logger, open opener) (store.Store, error) {
	exp := backoff.NewExponentialBackOff()
	exp.MaxElapsedTime = cfg.BootstrapTimeout

	var st *sqlstore.DB
	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		s, err := open(ctx)
		if err != nil {
			return err
		}
		st = s
		return nil
	}, backoff.WithContext(exp, ctx), func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("driver", cfg.DBDriver).Int("attempt", attempt).Dur("retry_in", wait).
			Msg("store not ready")
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DBDriver, err)
	}
	log.Info().Str("driver", cfg.DBDriver).Int("attempts", attempt).Msg("store ready")
	return st, nil
}
