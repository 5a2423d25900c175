package cmd

import (
	"github.com/spf13/cobra"

	"github.com/matiasbn/dj-wizard/internal/app"
	"github.com/matiasbn/dj-wizard/internal/service/soundeo"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Drain the download queue within the daily budget",
	Long: `Acquires download URLs for queued tracks, highest priority first, then
transfers every available track into the download directory.

Both phases run on a shared worker pool. The session stops cleanly when the
account's download budget is exhausted or the run is interrupted; anything
left over is picked up by the next run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := &soundeo.DownloadQueueOptions{}
		opts.ResumeOnly, _ = cmd.Flags().GetBool("resume-queue")
		opts.GenreFilter, _ = cmd.Flags().GetString("genre")

		return app.ExecuteQueueCommand(cmd.Context(), appConfig, opts)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	queueCmd.Flags().Bool(
		"resume-queue",
		false,
		"skip URL acquisition and only transfer the already available tracks.")
	queueCmd.Flags().String(
		"genre",
		"",
		"only drain queued tracks whose stored genre matches this name.")

	rootCmd.AddCommand(queueCmd)
}
