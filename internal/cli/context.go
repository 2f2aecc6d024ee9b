package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"romkit/internal/config"
	"romkit/internal/logging"
	"romkit/internal/pkgmeta"
	"romkit/internal/romdb"
)

type commandContext struct {
	configFlag   string
	romsFlag     string
	pythonFlag   string
	logLevelFlag string

	opts options

	// lenientConfig replaces an unreadable or invalid config file with the
	// defaults; configWarning keeps the rejected error.
	lenientConfig bool
	configWarning error

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(opts ...Option) *commandContext {
	c := &commandContext{}
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c
}

func (c *commandContext) bindFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.configFlag, "config", "c", "", "Configuration file path")
	flags.StringVarP(&c.romsFlag, "roms-path", "r", "", "ROM directory (overrides "+config.RomsPathEnv+")")
	flags.StringVar(&c.pythonFlag, "python", "", "Python interpreter to use")
	flags.StringVar(&c.logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			if !c.lenientConfig {
				c.configErr = err
				return
			}
			c.configWarning = err
			if cfg, err = config.LoadDefaults(); err != nil {
				c.configErr = err
				return
			}
			path = strings.TrimSpace(c.configFlag)
		}
		if err := c.applyFlags(cfg); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) applyFlags(cfg *config.Config) error {
	if dir := strings.TrimSpace(c.romsFlag); dir != "" {
		if err := cfg.SetRomsDir(dir); err != nil {
			return err
		}
	}
	if python := strings.TrimSpace(c.pythonFlag); python != "" {
		cfg.Python.Interpreter = python
	}
	if level := strings.TrimSpace(c.logLevelFlag); level != "" {
		cfg.Logging.Level = strings.ToLower(level)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// loggerFor returns the command logger, writing to the command's stderr.
func (c *commandContext) loggerFor(cmd *cobra.Command) *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, _ := c.ensureConfig()
		logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

// openStore opens the cache database, returning nil when the cache is disabled.
func (c *commandContext) openStore(cfg *config.Config) (*romdb.Store, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	store, err := romdb.Open(cfg.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", cfg.Cache.Path, err)
	}
	return store, nil
}

// requireStore is openStore for commands that cannot work without the cache.
func (c *commandContext) requireStore(cfg *config.Config) (*romdb.Store, error) {
	if !cfg.Cache.Enabled {
		return nil, errors.New("the cache is disabled; set [cache] enabled = true")
	}
	return c.openStore(cfg)
}

func (c *commandContext) querier(cmd *cobra.Command, cfg *config.Config) pkgmeta.Querier {
	if c.opts.querier != nil {
		return c.opts.querier
	}
	return pkgmeta.NewPythonQuerier(cfg.Python.Interpreter, cmd.ErrOrStderr())
}

func (c *commandContext) latestFetcher(cfg *config.Config) LatestFetcher {
	if c.opts.latest != nil {
		return c.opts.latest
	}
	timeout := time.Duration(cfg.Engine.RequestTimeout) * time.Second
	return pkgmeta.NewPyPIClient(cfg.Engine.PyPIURL, pkgmeta.WithTimeout(timeout))
}

func loadConfigHook(ctx *commandContext) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if shouldSkipConfig(cmd) {
			return nil
		}
		if _, err := ctx.ensureConfig(); err != nil {
			return err
		}
		if ctx.configWarning != nil {
			logging.WarnWithContext(ctx.loggerFor(cmd), "config file ignored", "config_invalid",
				logging.Error(ctx.configWarning),
				logging.String(logging.FieldErrorHint, "run `romkit config validate` and fix the reported key"),
				logging.String(logging.FieldImpact, "using built-in defaults"),
			)
		}
		return nil
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
