package app

import (
	"context"

	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/service/genre"
)

// ExecuteGenreAddCommand registers a genre for scheduled scanning.
func ExecuteGenreAddCommand(ctx context.Context, cfg *config.Config, genreID uint32, name string) error {
	stateStore := openStore(ctx, cfg)
	genreService := genre.NewService(cfg, newCatalogClient(ctx, cfg), stateStore)

	return genreService.AddGenre(ctx, genreID, name)
}

// ExecuteGenreListCommand prints the tracked genres and their watermarks.
func ExecuteGenreListCommand(ctx context.Context, cfg *config.Config) error {
	stateStore := openStore(ctx, cfg)
	genreService := genre.NewService(cfg, newCatalogClient(ctx, cfg), stateStore)

	genres := genreService.ListGenres()
	if len(genres) == 0 {
		logger.Info(ctx, "No genres are tracked yet. Add one with 'dj-wizard genre add <id> <name>'.")

		return nil
	}

	for _, tracked := range genres {
		watermark := tracked.LastCheckedDate
		if watermark == "" {
			watermark = "never"
		}

		logger.Infof(ctx, "%d: %s (last checked: %s)", tracked.GenreID, tracked.GenreName, watermark)
	}

	return nil
}

// ExecuteGenreRunCommand walks tracked genre listings and enqueues tracks
// released since each genre's watermark. A zero genreID walks every tracked
// genre.
func ExecuteGenreRunCommand(ctx context.Context, cfg *config.Config, genreID uint32) error {
	requireSession(ctx, cfg)

	stateStore := openStore(ctx, cfg)
	genreService := genre.NewService(cfg, newCatalogClient(ctx, cfg), stateStore)

	var (
		summaries []genre.WalkSummary
		err       error
	)

	if genreID != 0 {
		var summary *genre.WalkSummary

		summary, err = genreService.RunGenre(ctx, genreID)
		if summary != nil {
			summaries = append(summaries, *summary)
		}
	} else {
		summaries, err = genreService.RunAll(ctx)
	}

	// Partial walks still advance watermarks, so report whatever completed.
	for _, summary := range summaries {
		logger.Infof(ctx,
			"Genre '%s' (%d): %d pages visited, %d tracks seen, %d enqueued, watermark %s.",
			summary.GenreName, summary.GenreID,
			summary.PagesVisited, summary.TracksSeen, summary.TracksEnqueued,
			summary.Watermark)
	}

	return err
}
