package cmd

import (
	"github.com/spf13/cobra"

	"github.com/matiasbn/dj-wizard/internal/app"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show snapshot statistics, genre watermarks, and the download budget",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.ExecuteInfoCommand(cmd.Context(), appConfig)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(infoCmd)
}
