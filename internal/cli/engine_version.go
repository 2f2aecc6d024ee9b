package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"romkit/internal/config"
	"romkit/internal/logging"
	"romkit/internal/pkgmeta"
)

// NewEngineVersionCommand builds the standalone get-diambra-engine-version
// program.
func NewEngineVersionCommand(opts ...Option) *cobra.Command {
	ctx := newCommandContext(opts...)
	ctx.lenientConfig = true
	cmd := newEngineVersionCommand(ctx)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.PersistentPreRunE = loadConfigHook(ctx)
	ctx.bindFlags(cmd.PersistentFlags())
	return cmd
}

func newEngineVersionCommand(ctx *commandContext) *cobra.Command {
	var showLatest bool
	var showImage bool

	cmd := &cobra.Command{
		Use:   "get-diambra-engine-version [package-name]",
		Short: "Print the installed version of a Python package",
		Long: "Print the installed version of package-name (default " + pkgmeta.DefaultPackage +
			") as reported by the Python interpreter.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			name := packageName(cfg, args)

			version, err := ctx.querier(cmd, cfg).InstalledVersion(cmd.Context(), name)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, version)

			if showImage {
				ref, fallback := pkgmeta.EngineImage(cfg.Engine.Registry, cfg.Engine.Image, pkgmeta.ParseVersion(version))
				if fallback {
					logging.WarnWithContext(ctx.loggerFor(cmd), "version does not map to an engine image", "engine_image_fallback",
						logging.String("package", name),
						logging.String("version", version),
						logging.String(logging.FieldErrorHint, "install a released "+name+" build"),
						logging.String(logging.FieldImpact, "using the "+pkgmeta.DefaultImageTag+" image"),
					)
				}
				fmt.Fprintf(out, "image: %s\n", ref)
			}

			if showLatest {
				latest, err := ctx.latestFetcher(cfg).Latest(cmd.Context(), name)
				if err != nil {
					logging.WarnWithContext(ctx.loggerFor(cmd), "latest version lookup failed", "pypi_lookup_failed",
						logging.String("package", name),
						logging.Error(err),
						logging.String(logging.FieldErrorHint, "check network access to "+cfg.Engine.PyPIURL),
						logging.String(logging.FieldImpact, "latest version not shown"),
					)
					return nil
				}
				fmt.Fprintf(out, "latest: %s\n", latest)
				if pkgmeta.ParseVersion(version).Less(pkgmeta.ParseVersion(latest)) {
					fmt.Fprintf(cmd.ErrOrStderr(), "A newer %s is available: pip install -U %s\n", name, name)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showLatest, "latest", false, "Also print the latest version published on PyPI")
	cmd.Flags().BoolVar(&showImage, "image", false, "Also print the engine image matching the installed version")
	return cmd
}

// packageName picks the argument, else the configured engine package.
func packageName(cfg *config.Config, args []string) string {
	if len(args) == 0 && strings.TrimSpace(cfg.Engine.Package) != "" {
		return strings.TrimSpace(cfg.Engine.Package)
	}
	return pkgmeta.ResolvePackage(args)
}
