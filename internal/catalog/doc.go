// Package catalog stores the SHA-256 digests of known-good ROM archives.
//
// The catalog backs the native verifier: a ROM passes when its digest matches
// the entry recorded for its file name.
//
// # Storage
//
// The catalog is a TOML file (default ~/.config/romkit/catalog.toml) with
// one [[rom]] table per archive:
//
//	[[rom]]
//	id = "sfiii3n"
//	title = "Street Fighter III 3rd Strike"
//	file = "sfiii3n.zip"
//	sha256 = "..."
//
// Saves take an exclusive flock on <path>.lock and replace the file
// atomically.
//
// CLI commands for management:
//
//	romkit catalog add <rom>      # Hash a ROM and record it
//	romkit catalog remove <file>  # Forget an entry
//	romkit catalog list           # Show all entries
package catalog
