package romdb_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"romkit/internal/fileutil"
	"romkit/internal/romdb"
	"romkit/internal/testsupport"
)

const helloSHA256 = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if store.Path() != cfg.Cache.Path {
		t.Fatalf("Path = %q, want %q", store.Path(), cfg.Cache.Path)
	}
	if _, err := os.Stat(cfg.Cache.Path); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
	count, err := store.CachedDigests(context.Background())
	if err != nil {
		t.Fatalf("CachedDigests: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty digest table, got %d", count)
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := romdb.Open(cfg.Cache.Path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.Record(context.Background(), romdb.CheckRecord{RunID: "run-1", Name: "a.zip", Status: "ok"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := testsupport.MustOpenStore(t, cfg)
	recent, err := second.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 1 || recent[0].RunID != "run-1" {
		t.Fatalf("unexpected history after reopen: %#v", recent)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := romdb.Open(cfg.Cache.Path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	store.Close()

	db, err := sql.Open("sqlite", cfg.Cache.Path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := romdb.Open(cfg.Cache.Path); !errors.Is(err, romdb.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := romdb.Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestDigestCachesByModTime(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	path := filepath.Join(cfg.Paths.RomsDir, "sfiii3n.zip")
	testsupport.WriteBytes(t, path, []byte("hello"))
	stamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	first, err := store.Digest(ctx, path)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if first.SHA256 != helloSHA256 || first.Size != 5 {
		t.Fatalf("unexpected digest: %#v", first)
	}

	// Same size and mtime: the cached value wins even though content changed.
	testsupport.WriteBytes(t, path, []byte("HELLO"))
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	cached, err := store.Digest(ctx, path)
	if err != nil {
		t.Fatalf("Digest cached: %v", err)
	}
	if cached.SHA256 != helloSHA256 {
		t.Fatalf("expected cached digest, got %s", cached.SHA256)
	}

	later := stamp.Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	fresh, err := store.Digest(ctx, path)
	if err != nil {
		t.Fatalf("Digest fresh: %v", err)
	}
	if fresh.SHA256 == helloSHA256 {
		t.Fatal("expected digest to be recomputed after mtime change")
	}

	count, err := store.CachedDigests(ctx)
	if err != nil {
		t.Fatalf("CachedDigests: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one cached row, got %d", count)
	}
}

func TestDigestMissingFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	_, err := store.Digest(context.Background(), filepath.Join(cfg.Paths.RomsDir, "missing.zip"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestPruneRemovesVanishedFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	keep := filepath.Join(cfg.Paths.RomsDir, "keep.zip")
	drop := filepath.Join(cfg.Paths.RomsDir, "drop.zip")
	testsupport.WriteFile(t, keep, 16)
	testsupport.WriteFile(t, drop, 16)
	for _, path := range []string{keep, drop} {
		if _, err := store.Digest(ctx, path); err != nil {
			t.Fatalf("Digest %s: %v", path, err)
		}
	}
	if err := os.Remove(drop); err != nil {
		t.Fatalf("remove: %v", err)
	}

	removed, err := store.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 pruned row, got %d", removed)
	}
	count, err := store.CachedDigests(ctx)
	if err != nil {
		t.Fatalf("CachedDigests: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 remaining row, got %d", count)
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	names := []string{"a.zip", "b.zip", "c.zip"}
	for _, name := range names {
		rec := romdb.CheckRecord{
			RunID:    "run-1",
			Backend:  "python",
			Name:     name,
			Path:     "/roms/" + name,
			Status:   "ok",
			Duration: 1500 * time.Millisecond,
		}
		if err := store.Record(ctx, rec); err != nil {
			t.Fatalf("Record %s: %v", name, err)
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(recent))
	}
	if recent[0].Name != "c.zip" || recent[1].Name != "b.zip" {
		t.Fatalf("unexpected order: %s, %s", recent[0].Name, recent[1].Name)
	}
	if recent[0].Duration != 1500*time.Millisecond {
		t.Fatalf("duration = %v", recent[0].Duration)
	}
	if recent[0].CheckedAt.IsZero() {
		t.Fatal("expected CheckedAt to be stamped")
	}
}

func TestDigestWithHashesOnlyOnMiss(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCache())
	store := testsupport.MustOpenStore(t, cfg)
	rom := filepath.Join(cfg.Paths.RomsDir, "kof98.zip")
	testsupport.WriteBytes(t, rom, []byte("hello"))

	calls := 0
	hash := func(ctx context.Context, path string) (fileutil.Digest, error) {
		calls++
		return fileutil.SHA256File(ctx, path)
	}
	for i := 0; i < 2; i++ {
		digest, err := store.DigestWith(context.Background(), rom, hash)
		if err != nil {
			t.Fatalf("DigestWith: %v", err)
		}
		if digest.SHA256 != helloSHA256 {
			t.Fatalf("unexpected digest %q", digest.SHA256)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one hash on the miss, got %d", calls)
	}
}
