package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"

	"romkit/internal/config"
	"romkit/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

// setupCLITestEnv isolates HOME and the ROM path variable and writes a
// config file pointing every path into a temp directory.
func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "xdg-cache"))
	t.Setenv(config.RomsPathEnv, "")

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
roms_dir = %q
cache_dir = %q

[python]
interpreter = %q

[verifier]
backend = %q
catalog_path = %q

[cache]
enabled = %t
path = %q
`,
		cfg.Paths.RomsDir,
		cfg.Paths.CacheDir,
		cfg.Python.Interpreter,
		cfg.Verifier.Backend,
		cfg.Verifier.CatalogPath,
		cfg.Cache.Enabled,
		cfg.Cache.Path,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, cmd *cobra.Command, args []string, configPath string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

type recordingVerifier struct {
	mu    sync.Mutex
	paths []string
	fail  map[string]error
}

func (v *recordingVerifier) Verify(_ context.Context, path string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.paths = append(v.paths, path)
	return v.fail[path]
}

type fakeQuerier struct {
	versions map[string]string
	asked    []string
}

func (f *fakeQuerier) InstalledVersion(_ context.Context, name string) (string, error) {
	f.asked = append(f.asked, name)
	if v, ok := f.versions[name]; ok {
		return v, nil
	}
	return "", fmt.Errorf("no such package: %s", name)
}

type fakeLatest struct {
	version string
	err     error
}

func (f fakeLatest) Latest(context.Context, string) (string, error) {
	return f.version, f.err
}
