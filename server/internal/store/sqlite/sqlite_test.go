package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mycelian/mycelian-identities/server/internal/store"
	"github.com/mycelian/mycelian-identities/server/internal/store/storetest"
)

func makeSQLiteStore(t *testing.T) store.Store {
	t.Helper()
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "nested", "identities.db"))
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_Compliance(t *testing.T) {
	storetest.Run(t, makeSQLiteStore)
}

func TestSQLiteStore_MigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identities.db")
	s, err := New(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Close()
	s, err = New(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_ = s.Close()
}
