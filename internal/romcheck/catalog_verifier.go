package romcheck

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"romkit/internal/catalog"
	"romkit/internal/fileutil"
)

// Hasher produces the SHA-256 digest of a file.
type Hasher interface {
	Digest(ctx context.Context, path string) (fileutil.Digest, error)
}

// FileHasher hashes files directly without caching.
type FileHasher struct{}

// Digest streams path through SHA-256.
func (FileHasher) Digest(ctx context.Context, path string) (fileutil.Digest, error) {
	return fileutil.SHA256File(ctx, path)
}

// CatalogVerifier compares ROM digests with the entries of a local catalog.
type CatalogVerifier struct {
	catalog *catalog.Catalog
	hasher  Hasher
}

// NewCatalogVerifier returns a verifier backed by cat. A nil hasher hashes
// every file from scratch.
func NewCatalogVerifier(cat *catalog.Catalog, hasher Hasher) *CatalogVerifier {
	if hasher == nil {
		hasher = FileHasher{}
	}
	return &CatalogVerifier{catalog: cat, hasher: hasher}
}

// Verify looks path up by file name and checks its digest.
func (v *CatalogVerifier) Verify(ctx context.Context, path string) error {
	file := filepath.Base(path)
	entry, ok := v.catalog.Lookup(file)
	if !ok {
		return fmt.Errorf("%w: %s is not in catalog %s", ErrUnknownROM, file, v.catalog.Path())
	}
	digest, err := v.hasher.Digest(ctx, path)
	if err != nil {
		return err
	}
	if !strings.EqualFold(digest.SHA256, entry.SHA256) {
		return fmt.Errorf("%w: %s expected %s, got %s", ErrChecksumMismatch, path, entry.SHA256, digest.SHA256)
	}
	return nil
}
