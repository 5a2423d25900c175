package app

import (
	"context"

	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/service/mirror"
)

// MigrateOptions selects which snapshot sections the migrate command mirrors.
type MigrateOptions struct {
	// SnapshotPath points the migration at an alternate snapshot file.
	// Empty means the snapshot under the configured download path.
	SnapshotPath string
	// LightOnly mirrors only the small sections: Spotify pairings, genre
	// tracker, and staged URLs.
	LightOnly bool
	// QueuedTracks mirrors the queue collection.
	QueuedTracks bool
	// Queue is an alias for QueuedTracks kept for the original surface.
	Queue bool
	// Soundeo mirrors the track collection.
	Soundeo bool
	// IndividualTracks is an alias for Soundeo kept for the original surface.
	IndividualTracks bool
	// Remaining explicitly asks for the default behavior: mirror everything
	// not yet marked migrated.
	Remaining bool
}

// wantsTracks reports whether the track collection was selected.
func (o *MigrateOptions) wantsTracks() bool {
	return o.Soundeo || o.IndividualTracks
}

// wantsQueue reports whether the queue collection was selected.
func (o *MigrateOptions) wantsQueue() bool {
	return o.QueuedTracks || o.Queue
}

// selective reports whether any subset flag narrows the migration.
func (o *MigrateOptions) selective() bool {
	return o.LightOnly || o.wantsTracks() || o.wantsQueue()
}

// ExecuteMigrateCommand mirrors snapshot sections to the cloud. Without
// subset flags it migrates every unmirrored track and queue entry, the
// available set, and the light sections.
func ExecuteMigrateCommand(ctx context.Context, cfg *config.Config, opts *MigrateOptions) error {
	requireCloudConfig(ctx, cfg)

	snapshotPath := opts.SnapshotPath
	if snapshotPath == "" {
		snapshotPath = defaultSnapshotPath(cfg)
	}

	stateStore := openStoreAt(ctx, snapshotPath)
	mirrorService := newMirrorService(ctx, cfg, stateStore)

	// Ensure statistics are always printed, even when the run panics.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		mirrorService.PrintMigrationSummary(ctx)
	}()

	return runMigration(ctx, mirrorService, opts)
}

// runMigration executes the selected migration steps in a fixed order:
// tracks, then queue, then available set, then light sections.
func runMigration(ctx context.Context, mirrorService mirror.Service, opts *MigrateOptions) error {
	if !opts.selective() {
		return runFullMigration(ctx, mirrorService)
	}

	if opts.wantsTracks() {
		if err := mirrorService.MigrateTracks(ctx); err != nil {
			return err
		}
	}

	if opts.wantsQueue() {
		if err := mirrorService.MigrateQueue(ctx); err != nil {
			return err
		}
	}

	if opts.LightOnly {
		if err := mirrorService.MigrateLightSections(ctx); err != nil {
			return err
		}
	}

	return nil
}

// runFullMigration mirrors every section of the snapshot.
func runFullMigration(ctx context.Context, mirrorService mirror.Service) error {
	if err := mirrorService.MigrateTracks(ctx); err != nil {
		return err
	}

	if err := mirrorService.MigrateQueue(ctx); err != nil {
		return err
	}

	if err := mirrorService.MigrateAvailable(ctx); err != nil {
		return err
	}

	return mirrorService.MigrateLightSections(ctx)
}
