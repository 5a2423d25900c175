package app

import (
	"context"

	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/service/soundeo"
)

// ExecuteQueueCommand drains the download queue: phase one turns queued
// tracks into available download URLs, phase two transfers the available
// set to disk.
func ExecuteQueueCommand(ctx context.Context, cfg *config.Config, opts *soundeo.DownloadQueueOptions) error {
	requireSession(ctx, cfg)

	stateStore := openStore(ctx, cfg)
	downloadService := soundeo.NewService(cfg, newCatalogClient(ctx, cfg), stateStore)

	// Ensure statistics are always printed, even when the run panics.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		downloadService.PrintDownloadSummary(ctx)
	}()

	return downloadService.DownloadQueue(ctx, opts)
}
