package app

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/version"
)

// ExecuteInfoCommand prints a summary of the local state snapshot, the
// tracked genre watermarks, and, when a session is configured, the remaining
// download budget reported by the catalog.
func ExecuteInfoCommand(ctx context.Context, cfg *config.Config) error {
	stateStore := openStore(ctx, cfg)
	stats := stateStore.Summary()

	logger.Infof(ctx, "dj-wizard %s", version.Full())
	logger.Infof(ctx, "State snapshot: %s", stateStore.Path())

	if stats.LastUpdate > 0 {
		logger.Infof(ctx, "Last update: %s", humanize.Time(time.Unix(stats.LastUpdate, 0)))
	}

	logger.Infof(ctx, "Known tracks: %d (%d downloaded)", stats.Tracks, stats.Downloaded)
	logger.Infof(ctx, "Queued: %d, available: %d, staged URLs: %d",
		stats.Queued, stats.Available, stats.PendingURLs)
	logger.Infof(ctx, "Tracked genres: %d, paired playlists: %d", stats.Genres, stats.Playlists)
	logger.Infof(ctx, "Mirrored to cloud: %d tracks, %d queue entries",
		stats.MirroredTracks, stats.MirroredQueues)

	for _, tracked := range stateStore.ListGenres() {
		watermark := tracked.LastCheckedDate
		if watermark == "" {
			watermark = "never"
		}

		logger.Infof(ctx, "Genre %d '%s': watermark %s", tracked.GenreID, tracked.GenreName, watermark)
	}

	if config.ValidateSession(cfg) != nil {
		logger.Info(ctx, "No session cookie configured, skipping the budget check.")

		return nil
	}

	remaining, err := newCatalogClient(ctx, cfg).CheckRemainingDownloads(ctx)
	if err != nil {
		logger.Warnf(ctx, "Could not fetch the remaining download budget: %v", err)

		return nil
	}

	logger.Infof(ctx, "Remaining download budget: %d (main: %d, bonus: %d)",
		remaining.Total(), remaining.Main, remaining.Bonus)

	if remaining.ResetETA != "" {
		logger.Infof(ctx, "Budget resets in %s.", remaining.ResetETA)
	}

	return nil
}
