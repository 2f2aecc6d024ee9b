package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"romkit/internal/catalog"
	"romkit/internal/logging"
	"romkit/internal/romcheck"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the local catalog of reference ROM digests",
	}

	catalogCmd.AddCommand(newCatalogAddCommand(ctx))
	catalogCmd.AddCommand(newCatalogRemoveCommand(ctx))
	catalogCmd.AddCommand(newCatalogListCommand(ctx))

	return catalogCmd
}

func newCatalogAddCommand(ctx *commandContext) *cobra.Command {
	var title string
	var replace bool

	cmd := &cobra.Command{
		Use:   "add <rom>...",
		Short: "Hash ROM archives and record them as known-good",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(title) != "" && len(args) > 1 {
				return fmt.Errorf("%w: --title applies to a single rom", ErrUsage)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat, err := catalog.Load(cfg.Verifier.CatalogPath)
			if err != nil {
				return err
			}
			logger := logging.NewComponentLogger(ctx.loggerFor(cmd), "catalog")

			out := cmd.OutOrStdout()
			for _, name := range args {
				path := romcheck.ResolvePath(cfg.Paths.RomsDir, name)
				digest, err := hashWithProgress(cmd.Context(), path, filepath.Base(path), cmd.ErrOrStderr())
				if err != nil {
					return fmt.Errorf("hash %s: %w", name, err)
				}
				entry := catalog.Entry{File: filepath.Base(path), Title: title, SHA256: digest.SHA256}
				if err := cat.Add(entry, replace); err != nil {
					if errors.Is(err, catalog.ErrDuplicate) {
						return fmt.Errorf("%w (use --replace to update it)", err)
					}
					return err
				}
				logger.Info("rom catalogued",
					logging.String("file", entry.File),
					logging.String("sha256", digest.SHA256),
					logging.Int64("size", digest.Size),
				)
				fmt.Fprintf(out, "Added %s (%s)\n", entry.File, digest.SHA256)
			}
			if err := cat.Save(); err != nil {
				return fmt.Errorf("save catalog: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Display title for the rom")
	cmd.Flags().BoolVar(&replace, "replace", false, "Replace an existing entry for the same file")
	return cmd
}

func newCatalogRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <file>...",
		Aliases: []string{"rm"},
		Short:   "Remove ROM entries from the catalog",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat, err := catalog.Load(cfg.Verifier.CatalogPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, file := range args {
				if err := cat.Remove(filepath.Base(file)); err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %s\n", filepath.Base(file))
			}
			if err := cat.Save(); err != nil {
				return fmt.Errorf("save catalog: %w", err)
			}
			return nil
		},
	}
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show catalog entries",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat, err := catalog.Load(cfg.Verifier.CatalogPath)
			if err != nil {
				return err
			}
			entries := cat.Entries()
			if jsonOutput {
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "Catalog %s is empty\n", cat.Path())
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.ID, e.DisplayTitle(), e.File, shortDigest(e.SHA256)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "File", "SHA-256"},
				rows,
				nil,
				terminalWidth(out),
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func shortDigest(digest string) string {
	if len(digest) <= 12 {
		return digest
	}
	return digest[:12]
}
