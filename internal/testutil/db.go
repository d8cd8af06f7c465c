package testutil

import (
	"context"
	"testing"

	"github.com/xxxsen/uxpages/internal/config"
	"github.com/xxxsen/uxpages/internal/repo"
)

// OpenTestDB returns a migrated in-memory sqlite database closed at test end.
func OpenTestDB(t *testing.T) *repo.DB {
	t.Helper()
	conn, err := repo.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := repo.ApplyMigrations(context.Background(), conn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}
