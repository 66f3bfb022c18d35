// Package sqlstore implements store.Store over database/sql. SQLite and
// Postgres share the queries; only placeholders and a few column types differ.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mycelian/mycelian-identities/server/internal/model"
	"github.com/mycelian/mycelian-identities/server/internal/store"
)

// Dialect selects placeholder style and column types.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// Timestamps are stored as fixed-width UTC text so they sort lexically in
// both dialects.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface{ Scan(dest ...any) error }

// DB is a store.Store backed by one *sql.DB.
type DB struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

var _ store.Store = (*DB)(nil)

// New wraps db. The schema must already exist; see Migrate.
func New(db *sql.DB, d Dialect) *DB {
	return &DB{db: db, dialect: d, now: func() time.Time { return time.Now().UTC() }}
}

func (s *DB) Characters() store.Characters           { return characters{s} }
func (s *DB) Careers() store.Careers                 { return careers{s} }
func (s *DB) Identities() store.Identities           { return identities{s} }
func (s *DB) IdentityCareers() store.IdentityCareers { return identityCareers{s} }
func (s *DB) Knowledge() store.Knowledge             { return knowledge{s} }

// HealthPing implements health.HealthPinger.
func (s *DB) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *DB) Close() error { return s.db.Close() }

// Migrate creates the tables and indexes when missing.
func (s *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema(s.dialect) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", s.dialect, err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *DB) rebind(q string) string {
	if s.dialect != Postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *DB) exec(ctx context.Context, q querier, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, s.rebind(query), args...)
}

func (s *DB) query(ctx context.Context, q querier, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, s.rebind(query), args...)
}

func (s *DB) queryRow(ctx context.Context, q querier, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, s.rebind(query), args...)
}

func (s *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *DB) stamp() string { return s.now().Format(tsLayout) }

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

func parseTS(v string) time.Time {
	t, err := time.Parse(tsLayout, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

func mustAffect(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func collect[T any](rows *sql.Rows, scan func(scanner) (*T, error)) ([]*T, error) {
	defer func() { _ = rows.Close() }()
	out := []*T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
