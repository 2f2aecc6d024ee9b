package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the romkit umbrella command.
func NewRootCommand(opts ...Option) *cobra.Command {
	ctx := newCommandContext(opts...)

	rootCmd := &cobra.Command{
		Use:               "romkit",
		Short:             "DIAMBRA ROM and engine toolkit",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfigHook(ctx),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	ctx.bindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newCheckRomsCommand(ctx))
	rootCmd.AddCommand(newEngineVersionCommand(ctx))
	rootCmd.AddCommand(newListRomsCommand(ctx))
	rootCmd.AddCommand(newCatalogCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newCacheCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
