package testsupport

import (
	"testing"

	"romkit/internal/config"
	"romkit/internal/romdb"
)

// MustOpenStore opens the cache database named by cfg and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *romdb.Store {
	t.Helper()

	store, err := romdb.Open(cfg.Cache.Path)
	if err != nil {
		t.Fatalf("romdb.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
