package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mycelian/mycelian-identities/server/internal/store/sqlstore"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New connects to dsn and applies the schema.
func New(ctx context.Context, dsn string) (*sqlstore.DB, error) {
	db, err := Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	s := sqlstore.New(db, sqlstore.Postgres)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
