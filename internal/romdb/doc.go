// Package romdb persists derived ROM data in SQLite: SHA-256 digests keyed by
// absolute path, size and modification time, and the history of checks run
// by romkit.
//
// Hashing a large archive dominates the cost of a catalog check, so the
// digest table lets repeated checks skip unchanged files. Everything stored
// here can be recomputed; on a schema mismatch the database is simply
// deleted and rebuilt.
package romdb
