package cmd

import (
	"github.com/spf13/cobra"

	"github.com/matiasbn/dj-wizard/internal/app"
)

var spotifyCmd = &cobra.Command{
	Use:   "spotify <playlist-url-or-id>",
	Short: "Pair a Spotify playlist with catalog tracks and enqueue the matches",
	Long: `Reads a public Spotify playlist, searches the catalog for each track by
artist and title, and enqueues the first match. Pairings are remembered, so
running the command again only processes tracks added to the playlist since
the last run.

Accepts a playlist URL, a spotify:playlist: URI, or a bare playlist id.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.ExecuteSpotifyCommand(cmd.Context(), appConfig, args[0])
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(spotifyCmd)
}
