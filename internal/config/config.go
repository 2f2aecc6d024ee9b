package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// RomsPathEnv names the environment variable holding the ROM directory.
const RomsPathEnv = "DIAMBRAROMSPATH"

// Paths contains directory configuration.
type Paths struct {
	RomsDir  string `toml:"roms_dir"`
	CacheDir string `toml:"cache_dir"`
}

// Python selects the interpreter used to reach the diambra Python libraries.
type Python struct {
	// Interpreter is a binary name or path. Empty means auto-detect.
	Interpreter string `toml:"interpreter"`
}

// Verifier contains configuration for ROM checksum verification.
type Verifier struct {
	Backend     string `toml:"backend"`
	CatalogPath string `toml:"catalog_path"`
	KeepGoing   bool   `toml:"keep_going"`
}

// Cache contains configuration for the SQLite digest cache and check history.
// It is disabled unless the config file turns it on.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Engine contains configuration for engine package and image resolution.
type Engine struct {
	Package        string `toml:"package"`
	ArenaPackage   string `toml:"arena_package"`
	PyPIURL        string `toml:"pypi_url"`
	Registry       string `toml:"registry"`
	Image          string `toml:"image"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for romkit.
//
// Configuration sections by subsystem:
//   - Paths: ROM directory and cache root
//   - Python: interpreter used by the python backends
//   - Verifier: checksum backend selection and catalog location
//   - Cache: digest cache and check history database
//   - Engine: engine package name, PyPI endpoint and image coordinates
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Python   Python   `toml:"python"`
	Verifier Verifier `toml:"verifier"`
	Cache    Cache    `toml:"cache"`
	Engine   Engine   `toml:"engine"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// LoadDefaults returns the built-in defaults, normalized the way Load does
// (environment overrides and path expansion) but without reading any file.
func LoadDefaults() (*Config, error) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("romkit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the cache directory when the cache is enabled.
// The ROM directory is never created: it is owned by the user and a missing
// one is reported by doctor.
func (c *Config) EnsureDirectories() error {
	if !c.Cache.Enabled || strings.TrimSpace(c.Paths.CacheDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.CacheDir, 0o755); err != nil {
		return fmt.Errorf("create cache directory %q: %w", c.Paths.CacheDir, err)
	}
	return nil
}

// SetRomsDir overrides the ROM directory, typically from a command-line flag.
func (c *Config) SetRomsDir(dir string) error {
	expanded, err := expandPath(strings.TrimSpace(dir))
	if err != nil {
		return fmt.Errorf("roms path: %w", err)
	}
	c.Paths.RomsDir = expanded
	return nil
}

// UsesCatalog reports whether verification runs against the local catalog.
func (c *Config) UsesCatalog() bool {
	return c.Verifier.Backend == BackendCatalog
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "romkit")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/romkit"
	}
	return filepath.Join(home, ".cache", "romkit")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
