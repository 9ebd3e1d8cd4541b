package db

import (
	"path/filepath"
	"testing"
)

func TestPgxMigrateURL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost:5432/app": "pgx5://u:p@localhost:5432/app",
		"postgresql://localhost/app?x=1":    "pgx5://localhost/app?x=1",
		"pgx5://already/converted":          "pgx5://already/converted",
	}
	for in, want := range tests {
		if got := pgxMigrateURL(in); got != want {
			t.Errorf("pgxMigrateURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRunSQLiteMigrationsIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "finsentinel.db")
	conn, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer conn.Close()

	for i := 0; i < 2; i++ {
		if err := RunSQLiteMigrations(path); err != nil {
			t.Fatalf("run %d: RunSQLiteMigrations() error = %v", i, err)
		}
	}

	for _, table := range []string{"users", "expenses", "budgets", "ai_insights"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}
