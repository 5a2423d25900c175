package app

import (
	"context"
	"path/filepath"

	clientfirestore "github.com/matiasbn/dj-wizard/internal/client/firestore"
	clientsoundeo "github.com/matiasbn/dj-wizard/internal/client/soundeo"
	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/service/mirror"
	"github.com/matiasbn/dj-wizard/internal/store"
)

// defaultSnapshotPath is where the state snapshot lives unless a command
// points at an alternate file.
func defaultSnapshotPath(cfg *config.Config) string {
	return filepath.Join(cfg.DownloadPath, store.DefaultSnapshotFilename)
}

// openStore opens the state snapshot under the configured download path.
func openStore(ctx context.Context, cfg *config.Config) *store.Store {
	return openStoreAt(ctx, defaultSnapshotPath(cfg))
}

// openStoreAt opens the state snapshot at an explicit path.
func openStoreAt(ctx context.Context, path string) *store.Store {
	stateStore, err := store.Open(path)
	if err != nil {
		logger.Fatalf(ctx, "Failed to open the state snapshot: %v", err)
	}

	return stateStore
}

// newCatalogClient builds the Soundeo HTTP client.
func newCatalogClient(ctx context.Context, cfg *config.Config) clientsoundeo.Client {
	catalogClient, err := clientsoundeo.NewClient(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize the catalog client: %v", err)
	}

	return catalogClient
}

// newMirrorService builds the Firestore client and the cloud mirror service
// on top of it.
func newMirrorService(ctx context.Context, cfg *config.Config, stateStore *store.Store) mirror.Service {
	cloudClient, err := clientfirestore.NewClient(ctx, cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize the Firestore client: %v", err)
	}

	return mirror.NewService(cfg, cloudClient, stateStore)
}

// requireSession aborts unless a session cookie is configured.
func requireSession(ctx context.Context, cfg *config.Config) {
	if err := config.ValidateSession(cfg); err != nil {
		logger.Fatalf(ctx, "%v", err)
	}
}

// requireCloudConfig aborts unless the cloud mirror settings are complete.
func requireCloudConfig(ctx context.Context, cfg *config.Config) {
	if err := config.ValidateCloudConfig(cfg); err != nil {
		logger.Fatalf(ctx, "%v", err)
	}
}

// requireSpotifyConfig aborts unless the Spotify credentials are configured.
func requireSpotifyConfig(ctx context.Context, cfg *config.Config) {
	if err := config.ValidateSpotifyConfig(cfg); err != nil {
		logger.Fatalf(ctx, "%v", err)
	}
}
