package cmd

import (
	"github.com/spf13/cobra"

	"github.com/matiasbn/dj-wizard/internal/app"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or edit the configuration file",
	Long: `Prints the effective configuration with secrets masked, or updates
individual values in the configuration file.

Examples:
  dj-wizard config --show
  dj-wizard config --set user=dj@example.com
  dj-wizard config --set max_workers=2 --set log_level=debug`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sets, _ := cmd.Flags().GetStringArray("set")

		return app.ExecuteConfigCommand(cmd.Context(), appConfig, sets)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	configCmd.Flags().Bool("show", false, "print the effective configuration (default when no --set is given).")
	configCmd.Flags().StringArray("set", nil, "set a configuration value, formatted as key=value (repeatable).")
	configCmd.MarkFlagsMutuallyExclusive("show", "set")

	rootCmd.AddCommand(configCmd)
}
