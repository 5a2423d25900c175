package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matiasbn/dj-wizard/internal/app"
)

var (
	genreCmd = &cobra.Command{
		Use:   "genre",
		Short: "Track catalog genres and scan them for new releases",
		Long: `Manage the genre tracker. Tracked genres remember the newest release date
already inspected, so each scan only walks listing pages for releases newer
than the stored watermark.`,
	}

	genreAddCmd = &cobra.Command{
		Use:   "add <id> <name>",
		Short: "Register a genre for scheduled scanning",
		Long: `Registers a catalog genre id under a display name. The id is the
genreFilter value used by catalog listing URLs, for example:
  dj-wizard genre add 11 "Drum & Bass"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			genreID, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid genre id '%s': %w", args[0], err)
			}

			name := strings.Join(args[1:], " ")

			return app.ExecuteGenreAddCommand(cmd.Context(), appConfig, uint32(genreID), name)
		},
	}

	genreListCmd = &cobra.Command{
		Use:   "list",
		Short: "List tracked genres and their watermarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.ExecuteGenreListCommand(cmd.Context(), appConfig)
		},
	}

	genreRunCmd = &cobra.Command{
		Use:   "run",
		Short: "Walk tracked genre listings and enqueue new tracks",
		Long: `Walks the filtered listing pages of tracked genres, enqueues every track
released since the genre's watermark, and advances the watermark as pages
complete. Without --id every tracked genre is walked in turn.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			genreID, _ := cmd.Flags().GetUint32("id")

			return app.ExecuteGenreRunCommand(cmd.Context(), appConfig, genreID)
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	genreRunCmd.Flags().Uint32("id", 0, "walk only this genre id instead of every tracked genre.")

	// Add subcommands to the genre command.
	genreCmd.AddCommand(genreAddCmd, genreListCmd, genreRunCmd)

	rootCmd.AddCommand(genreCmd)
}
