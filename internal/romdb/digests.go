package romdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"romkit/internal/fileutil"
)

// HashFunc computes the digest of path on a cache miss.
type HashFunc func(ctx context.Context, path string) (fileutil.Digest, error)

// Digest returns the SHA-256 of path, reusing the cached value while the
// file's size and modification time are unchanged.
func (s *Store) Digest(ctx context.Context, path string) (fileutil.Digest, error) {
	return s.DigestWith(ctx, path, fileutil.SHA256File)
}

// DigestWith is Digest with a caller-supplied hash for cache misses.
func (s *Store) DigestWith(ctx context.Context, path string, hash HashFunc) (fileutil.Digest, error) {
	ctx = ensureContext(ctx)
	if hash == nil {
		hash = fileutil.SHA256File
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fileutil.Digest{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fileutil.Digest{}, err
	}
	if info.IsDir() {
		return fileutil.Digest{}, fmt.Errorf("%s is a directory", abs)
	}
	mtime := info.ModTime().UnixNano()

	var cached string
	err = s.db.QueryRowContext(ctx,
		"SELECT sha256 FROM digests WHERE path = ? AND size = ? AND mtime_ns = ?",
		abs, info.Size(), mtime,
	).Scan(&cached)
	switch {
	case err == nil:
		return fileutil.Digest{SHA256: cached, Size: info.Size()}, nil
	case !errors.Is(err, sql.ErrNoRows):
		return fileutil.Digest{}, fmt.Errorf("lookup digest: %w", err)
	}

	digest, err := hash(ctx, abs)
	if err != nil {
		return fileutil.Digest{}, err
	}
	if _, err := s.exec(ctx,
		`INSERT INTO digests (path, size, mtime_ns, sha256, hashed_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET size = excluded.size, mtime_ns = excluded.mtime_ns,
		 sha256 = excluded.sha256, hashed_at = excluded.hashed_at`,
		abs, digest.Size, mtime, digest.SHA256, time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fileutil.Digest{}, fmt.Errorf("store digest: %w", err)
	}
	return digest, nil
}

// CachedDigests reports how many digests are stored.
func (s *Store) CachedDigests(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx), "SELECT COUNT(1) FROM digests").Scan(&count); err != nil {
		return 0, fmt.Errorf("count digests: %w", err)
	}
	return count, nil
}

// Prune drops digests whose files no longer exist and returns how many were removed.
func (s *Store) Prune(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT path FROM digests")
	if err != nil {
		return 0, fmt.Errorf("list digests: %w", err)
	}
	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan digest: %w", err)
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			stale = append(stale, path)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterate digests: %w", err)
	}
	rows.Close()

	for _, path := range stale {
		if _, err := s.exec(ctx, "DELETE FROM digests WHERE path = ?", path); err != nil {
			return 0, fmt.Errorf("delete digest %s: %w", path, err)
		}
	}
	return len(stale), nil
}
