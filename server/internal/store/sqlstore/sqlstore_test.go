package sqlstore

import (
	"strings"
	"testing"
)

func TestRebind(t *testing.T) {
	pg := &DB{dialect: Postgres}
	got := pg.rebind(`UPDATE t SET a=?, b=? WHERE id=?`)
	if want := `UPDATE t SET a=$1, b=$2 WHERE id=$3`; got != want {
		t.Fatalf("rebind = %q, want %q", got, want)
	}
	lite := &DB{dialect: SQLite}
	if q := `SELECT 1 WHERE a=?`; lite.rebind(q) != q {
		t.Fatal("sqlite queries must not be rewritten")
	}
}

func TestSchemaBoolType(t *testing.T) {
	for _, stmt := range schema(Postgres) {
		if strings.Contains(stmt, "INTEGER NOT NULL DEFAULT 0") {
			t.Fatalf("postgres schema uses integer booleans: %s", stmt)
		}
	}
}
