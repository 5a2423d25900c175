package app

import (
	"context"

	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/service/clean"
)

// ExecuteCleanCommand removes duplicate files under the download path.
// With dryRun set it only reports what would be removed.
func ExecuteCleanCommand(ctx context.Context, cfg *config.Config, dryRun bool) error {
	cleanService := clean.NewService(cfg)

	// Ensure statistics are always printed, even when the run panics.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		cleanService.PrintCleanSummary(ctx)
	}()

	return cleanService.RemoveDuplicates(ctx, dryRun)
}
