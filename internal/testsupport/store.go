package testsupport

import (
	"context"
	"testing"

	"netdo/internal/config"
	"netdo/internal/kvstore"
	"netdo/internal/tasks"
)

// MustOpenStore opens the SQLite store for cfg and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *kvstore.SQLite {
	t.Helper()

	store, err := kvstore.OpenSQLite(context.Background(), cfg.StorePath())
	if err != nil {
		t.Fatalf("kvstore.OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedTasks overwrites the task list stored for cfg.
func SeedTasks(t testing.TB, cfg *config.Config, list []tasks.Task) {
	t.Helper()

	store, err := kvstore.OpenSQLite(context.Background(), cfg.StorePath())
	if err != nil {
		t.Fatalf("kvstore.OpenSQLite: %v", err)
	}
	defer store.Close()
	if err := tasks.NewStore(store, nil).ReplaceAll(context.Background(), list); err != nil {
		t.Fatalf("seed tasks: %v", err)
	}
}
