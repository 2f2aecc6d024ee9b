package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"romkit/internal/romcheck"
	"romkit/internal/romdb"
)

type historyRow struct {
	RunID      string `json:"run_id"`
	Backend    string `json:"backend"`
	ROM        string `json:"rom"`
	Path       string `json:"path"`
	Status     string `json:"status"`
	Detail     string `json:"detail,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	CheckedAt  string `json:"checked_at"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent ROM checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.requireStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, historyRows(records))
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No checks recorded yet")
				return nil
			}
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				status := rec.Status
				if colorize {
					status = statusLabel(romcheck.Status(rec.Status), true)
				}
				rows = append(rows, []string{
					humanize.Time(rec.CheckedAt),
					shortRunID(rec.RunID),
					rec.Name,
					rec.Backend,
					status,
					rec.Duration.Round(time.Millisecond).String(),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Run", "ROM", "Backend", "Status", "Duration"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				terminalWidth(out),
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of checks to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func historyRows(records []romdb.CheckRecord) []historyRow {
	rows := make([]historyRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, historyRow{
			RunID:      rec.RunID,
			Backend:    rec.Backend,
			ROM:        rec.Name,
			Path:       rec.Path,
			Status:     rec.Status,
			Detail:     rec.Detail,
			DurationMS: rec.Duration.Milliseconds(),
			CheckedAt:  rec.CheckedAt.UTC().Format(time.RFC3339),
		})
	}
	return rows
}

func shortRunID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Digest cache maintenance",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Drop cached digests for files that no longer exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.requireStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Prune(cmd.Context())
			if err != nil {
				return err
			}
			remaining, err := store.CachedDigests(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stale digests (%d cached)\n", removed, remaining)
			return nil
		},
	})

	return cacheCmd
}
