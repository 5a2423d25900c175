package cmd

import (
	"github.com/spf13/cobra"

	"github.com/matiasbn/dj-wizard/internal/app"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload the whole state document to the cloud mirror",
	Long: `Writes the combined state snapshot to the dj_wizard_data/main document in
the configured Firestore project. Unlike migrate, this is a single-document
write and does not touch the per-track collections.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.ExecuteBackupCommand(cmd.Context(), appConfig)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(backupCmd)
}
