package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePython()
	if err := c.normalizeVerifier(); err != nil {
		return err
	}
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizeEngine()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(RomsPathEnv); ok && strings.TrimSpace(value) != "" {
		c.Paths.RomsDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.RomsDir) == "" {
		c.Paths.RomsDir = defaultRomsDir
	}
	var err error
	if c.Paths.RomsDir, err = expandPath(c.Paths.RomsDir); err != nil {
		return fmt.Errorf("paths.roms_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePython() {
	c.Python.Interpreter = strings.TrimSpace(c.Python.Interpreter)
}

func (c *Config) normalizeVerifier() error {
	c.Verifier.Backend = strings.ToLower(strings.TrimSpace(c.Verifier.Backend))
	if c.Verifier.Backend == "" {
		c.Verifier.Backend = defaultBackend
	}
	if strings.TrimSpace(c.Verifier.CatalogPath) == "" {
		c.Verifier.CatalogPath = defaultCatalogPath
	}
	var err error
	if c.Verifier.CatalogPath, err = expandPath(c.Verifier.CatalogPath); err != nil {
		return fmt.Errorf("verifier.catalog_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeCache() error {
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = filepath.Join(c.Paths.CacheDir, defaultCacheFile)
	}
	var err error
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeEngine() {
	c.Engine.Package = strings.TrimSpace(c.Engine.Package)
	if c.Engine.Package == "" {
		c.Engine.Package = defaultEnginePackage
	}
	c.Engine.ArenaPackage = strings.TrimSpace(c.Engine.ArenaPackage)
	if c.Engine.ArenaPackage == "" {
		c.Engine.ArenaPackage = defaultArenaPackage
	}
	c.Engine.PyPIURL = strings.TrimRight(strings.TrimSpace(c.Engine.PyPIURL), "/")
	if c.Engine.PyPIURL == "" {
		c.Engine.PyPIURL = defaultPyPIURL
	}
	c.Engine.Registry = strings.TrimSpace(c.Engine.Registry)
	if c.Engine.Registry == "" {
		c.Engine.Registry = defaultRegistry
	}
	c.Engine.Image = strings.TrimSpace(c.Engine.Image)
	if c.Engine.Image == "" {
		c.Engine.Image = defaultEngineImage
	}
	if c.Engine.RequestTimeout <= 0 {
		c.Engine.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
