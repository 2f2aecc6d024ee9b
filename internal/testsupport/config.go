package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"romkit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The ROM directory exists and is empty; the cache database, when enabled
// with WithCache, lives under the same temp root.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.RomsDir = filepath.Join(base, "roms")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Cache.Path = filepath.Join(base, "cache", "romkit.db")
	cfgVal.Verifier.CatalogPath = filepath.Join(base, "catalog.toml")
	if err := os.MkdirAll(cfgVal.Paths.RomsDir, 0o755); err != nil {
		t.Fatalf("mkdir roms dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCatalogBackend switches verification to the local catalog.
func WithCatalogBackend() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Verifier.Backend = config.BackendCatalog
	}
}

// WithCache enables the digest cache and history database.
func WithCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = true
	}
}

// WithStubInterpreter installs a shell script as the configured Python
// interpreter. The body receives the same arguments python would: "-c",
// the script text, then the script arguments.
func WithStubInterpreter(body string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Python.Interpreter = StubInterpreter(b.t, filepath.Join(b.baseDir, "bin"), body)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.RomsDir)
}
