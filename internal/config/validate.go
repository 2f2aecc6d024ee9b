package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateVerifier(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateVerifier() error {
	switch c.Verifier.Backend {
	case BackendPython:
	case BackendCatalog:
		if strings.TrimSpace(c.Verifier.CatalogPath) == "" {
			return errors.New("verifier.catalog_path must be set when verifier.backend is catalog")
		}
	default:
		return fmt.Errorf("verifier.backend must be one of %s, %s (got %q)", BackendPython, BackendCatalog, c.Verifier.Backend)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Path) == "" {
		return errors.New("cache.path must be set when cache.enabled is true")
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.Package == "" {
		return errors.New("engine.package must be set")
	}
	if !strings.HasPrefix(c.Engine.PyPIURL, "http://") && !strings.HasPrefix(c.Engine.PyPIURL, "https://") {
		return fmt.Errorf("engine.pypi_url must be an http(s) URL (got %q)", c.Engine.PyPIURL)
	}
	if c.Engine.RequestTimeout <= 0 {
		return errors.New("engine.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
}
