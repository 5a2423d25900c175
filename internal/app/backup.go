package app

import (
	"context"

	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
)

// ExecuteBackupCommand uploads the whole state document to the cloud mirror
// in one write.
func ExecuteBackupCommand(ctx context.Context, cfg *config.Config) error {
	requireCloudConfig(ctx, cfg)

	stateStore := openStore(ctx, cfg)
	mirrorService := newMirrorService(ctx, cfg, stateStore)

	// Ensure statistics are always printed, even when the run panics.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		mirrorService.PrintMigrationSummary(ctx)
	}()

	return mirrorService.BackupCombined(ctx)
}
