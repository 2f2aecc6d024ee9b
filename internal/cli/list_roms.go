package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"romkit/internal/catalog"
	"romkit/internal/config"
	"romkit/internal/textutil"
)

type romListing struct {
	File       string `json:"file"`
	Size       int64  `json:"size"`
	Title      string `json:"title"`
	Catalogued bool   `json:"catalogued"`
	SHA256     string `json:"sha256,omitempty"`
}

func newListRomsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list-roms",
		Short: "List the archives in the ROM directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			listings, err := listRoms(cfg)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, listings)
			}

			out := cmd.OutOrStdout()
			if len(listings) == 0 {
				fmt.Fprintf(out, "No ROMs found in %s\n", cfg.Paths.RomsDir)
				return nil
			}
			rows := make([][]string, 0, len(listings))
			for _, l := range listings {
				rows = append(rows, []string{l.File, humanize.IBytes(uint64(l.Size)), l.Title, yesNo(l.Catalogued)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"File", "Size", "Title", "Catalogued"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
				terminalWidth(out),
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func listRoms(cfg *config.Config) ([]romListing, error) {
	entries, err := os.ReadDir(cfg.Paths.RomsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("rom directory %s does not exist (set %s or --roms-path)", cfg.Paths.RomsDir, config.RomsPathEnv)
		}
		return nil, fmt.Errorf("read rom directory: %w", err)
	}
	cat, err := catalog.Load(cfg.Verifier.CatalogPath)
	if err != nil {
		return nil, err
	}

	listings := make([]romListing, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		listing := romListing{
			File:  entry.Name(),
			Size:  info.Size(),
			Title: textutil.TitleFromID(textutil.IDFromFileName(entry.Name())),
		}
		if known, ok := cat.Lookup(entry.Name()); ok {
			listing.Catalogued = true
			listing.Title = known.DisplayTitle()
			listing.SHA256 = known.SHA256
		}
		listings = append(listings, listing)
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].File < listings[j].File })
	return listings, nil
}
