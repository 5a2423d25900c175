package cmd

import (
	"github.com/spf13/cobra"

	"github.com/matiasbn/dj-wizard/internal/app"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove duplicate files under the download directory",
	Long: `Scans the download directory recursively and removes files whose content
duplicates another file. Candidates are grouped by size and compared by
SHA-256, and the lexicographically first path in each group survives.

Use --dry-run to see what would be removed without touching anything.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		return app.ExecuteCleanCommand(cmd.Context(), appConfig, dryRun)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	cleanCmd.Flags().Bool("dry-run", false, "report duplicates without removing them.")

	rootCmd.AddCommand(cleanCmd)
}
