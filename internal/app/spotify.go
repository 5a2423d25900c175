package app

import (
	"context"

	clientspotify "github.com/matiasbn/dj-wizard/internal/client/spotify"
	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/service/spotify"
)

// ExecuteSpotifyCommand pairs a Spotify playlist with catalog tracks and
// enqueues every match for download.
func ExecuteSpotifyCommand(ctx context.Context, cfg *config.Config, playlistRef string) error {
	requireSession(ctx, cfg)
	requireSpotifyConfig(ctx, cfg)

	spotifyClient, err := clientspotify.NewClient(ctx, cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize the Spotify client: %v", err)
	}

	stateStore := openStore(ctx, cfg)
	pairService := spotify.NewService(cfg, spotifyClient, newCatalogClient(ctx, cfg), stateStore)

	// Ensure statistics are always printed, even when the run panics.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		pairService.PrintPairSummary(ctx)
	}()

	return pairService.PairPlaylist(ctx, playlistRef)
}
