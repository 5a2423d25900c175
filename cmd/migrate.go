package cmd

import (
	"github.com/spf13/cobra"

	"github.com/matiasbn/dj-wizard/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Mirror snapshot sections to the Firestore backup",
	Long: `Mirrors the state snapshot to per-section Firestore documents. Tracks and
queue entries already marked migrated are skipped, so repeated runs only
upload the remainder.

Without flags everything is migrated: the track collection, the queue
collection, the available set, and the light sections. Subset flags narrow
the run to the named sections.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := &app.MigrateOptions{}
		opts.SnapshotPath, _ = cmd.Flags().GetString("soundeo-log")
		opts.LightOnly, _ = cmd.Flags().GetBool("light-only")
		opts.QueuedTracks, _ = cmd.Flags().GetBool("queued-tracks")
		opts.Queue, _ = cmd.Flags().GetBool("queue")
		opts.Soundeo, _ = cmd.Flags().GetBool("soundeo")
		opts.IndividualTracks, _ = cmd.Flags().GetBool("individual-tracks")
		opts.Remaining, _ = cmd.Flags().GetBool("remaining")

		return app.ExecuteMigrateCommand(cmd.Context(), appConfig, opts)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	migrateCmd.Flags().String(
		"soundeo-log",
		"",
		"migrate an alternate snapshot file instead of the default one.")
	migrateCmd.Flags().Bool(
		"light-only",
		false,
		"mirror only the small sections: Spotify pairings, genre tracker, staged URLs.")
	migrateCmd.Flags().Bool("queued-tracks", false, "mirror the queue collection.")
	migrateCmd.Flags().Bool("queue", false, "alias of --queued-tracks.")
	migrateCmd.Flags().Bool("soundeo", false, "mirror the track collection.")
	migrateCmd.Flags().Bool("individual-tracks", false, "alias of --soundeo.")
	migrateCmd.Flags().Bool("remaining", false, "mirror everything not yet marked migrated (default).")

	rootCmd.AddCommand(migrateCmd)
}
