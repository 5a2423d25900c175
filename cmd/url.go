package cmd

import (
	"github.com/spf13/cobra"

	"github.com/matiasbn/dj-wizard/internal/app"
)

var urlCmd = &cobra.Command{
	Use:   "url [urls...]",
	Short: "Ingest listing pages and track URLs into the download queue",
	Long: `Accepts catalog track URLs and listing URLs such as genre pages, search
results, and charts. Listing pages are fetched and every linked track is
enqueued.

URLs are staged before ingestion, so an interrupted run can be resumed by
calling the command again, even with no arguments. Re-ingesting an already
queued track at a different priority re-prioritizes it.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, urls []string) error {
		listFile, _ := cmd.Flags().GetString("file")
		priorityName, _ := cmd.Flags().GetString("priority")

		return app.ExecuteURLCommand(cmd.Context(), appConfig, urls, listFile, priorityName)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	urlCmd.Flags().StringP("file", "f", "", "read additional URLs from a file, one per line.")
	urlCmd.Flags().StringP("priority", "p", "normal", "queue priority for ingested tracks: high, normal, or low.")

	rootCmd.AddCommand(urlCmd)
}
