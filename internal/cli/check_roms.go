package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"romkit/internal/catalog"
	"romkit/internal/config"
	"romkit/internal/logging"
	"romkit/internal/romcheck"
	"romkit/internal/romdb"
)

const checkRomsUsage = "check-roms <rom>..."

// NewCheckRomsCommand builds the standalone check-roms program.
func NewCheckRomsCommand(opts ...Option) *cobra.Command {
	ctx := newCommandContext(opts...)
	ctx.lenientConfig = true
	cmd := newCheckRomsCommand(ctx)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.PersistentPreRunE = loadConfigHook(ctx)
	ctx.bindFlags(cmd.PersistentFlags())
	return cmd
}

func newCheckRomsCommand(ctx *commandContext) *cobra.Command {
	var backend string
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   checkRomsUsage,
		Short: "Verify ROM archives against their known checksums",
		Long: "Verify each ROM, resolved against the ROM directory (" + config.RomsPathEnv +
			"), with the diambra-arena checksum routine or the local catalog.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: %s", ErrUsage, checkRomsUsage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if b := strings.ToLower(strings.TrimSpace(backend)); b != "" {
				if b != config.BackendPython && b != config.BackendCatalog {
					return fmt.Errorf("%w: --backend must be one of %s, %s", ErrUsage, config.BackendPython, config.BackendCatalog)
				}
				cfg.Verifier.Backend = b
			}
			if keepGoing {
				cfg.Verifier.KeepGoing = true
			}
			return runCheckRoms(cmd, ctx, cfg, args)
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "Verification backend (python or catalog)")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Check every ROM instead of stopping at the first failure")
	return cmd
}

func runCheckRoms(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, names []string) error {
	runID := uuid.NewString()
	runCtx := logging.WithRunID(cmd.Context(), runID)
	logger := logging.WithContext(runCtx, logging.NewComponentLogger(ctx.loggerFor(cmd), "check-roms"))

	store, err := ctx.openStore(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "cache unavailable", "cache_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the cache database or set [cache] enabled = false"),
			logging.String(logging.FieldImpact, "digests are not cached and history is not recorded"),
		)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	verifier, backendName, err := ctx.buildVerifier(cmd, cfg, store)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	checkerOpts := []romcheck.Option{
		romcheck.WithKeepGoing(cfg.Verifier.KeepGoing),
		romcheck.WithLogger(ctx.loggerFor(cmd)),
		romcheck.WithRunID(runID),
		romcheck.WithProgress(func(r romcheck.Result) {
			fmt.Fprintf(out, "%s: %s\n", r.Name, statusLabel(r.Status, colorize))
		}),
	}
	if store != nil {
		checkerOpts = append(checkerOpts, romcheck.WithRecorder(historyRecorder{store: store, backend: backendName}))
	}

	logger.Info("checking roms",
		logging.Int("count", len(names)),
		logging.String("roms_dir", cfg.Paths.RomsDir),
		logging.String("backend", backendName),
		logging.Bool("keep_going", cfg.Verifier.KeepGoing),
	)
	checker := romcheck.New(cfg.Paths.RomsDir, verifier, checkerOpts...)
	_, err = checker.Check(runCtx, names)
	return err
}

func (c *commandContext) buildVerifier(cmd *cobra.Command, cfg *config.Config, store *romdb.Store) (romcheck.Verifier, string, error) {
	if c.opts.verifier != nil {
		return c.opts.verifier, cfg.Verifier.Backend, nil
	}
	if !cfg.UsesCatalog() {
		v := romcheck.NewPythonVerifier(cfg.Python.Interpreter, cfg.Paths.RomsDir, cmd.OutOrStdout(), cmd.ErrOrStderr())
		return v, config.BackendPython, nil
	}

	cat, err := catalog.Load(cfg.Verifier.CatalogPath)
	if err != nil {
		return nil, "", err
	}
	if cat.Len() == 0 {
		return nil, "", fmt.Errorf("catalog %s is empty; add reference digests with `romkit catalog add`", cat.Path())
	}
	hasher := progressHasher{store: store, progress: cmd.ErrOrStderr()}
	return romcheck.NewCatalogVerifier(cat, hasher), config.BackendCatalog, nil
}

// historyRecorder stores check results in the cache database.
type historyRecorder struct {
	store   *romdb.Store
	backend string
}

func (h historyRecorder) Record(ctx context.Context, runID string, result romcheck.Result) error {
	rec := romdb.CheckRecord{
		RunID:    runID,
		Backend:  h.backend,
		Name:     result.Name,
		Path:     result.Path,
		Status:   string(result.Status),
		Duration: result.Duration,
	}
	if result.Err != nil {
		rec.Detail = result.Err.Error()
	}
	return h.store.Record(ctx, rec)
}
