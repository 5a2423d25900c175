// Package mirror copies the local state snapshot into the cloud document
// store. Track records and queue entries travel as one document each through
// a batched upload pool; the small sections are single-document saves. A
// migration bitmap seeded from the remote collections keeps reruns from
// re-uploading documents the mirror already holds.
package mirror

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"os"
	"sync"
	"time"

	clientfirestore "github.com/matiasbn/dj-wizard/internal/client/firestore"
	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/display"
	"github.com/matiasbn/dj-wizard/internal/store"
)

// Service defines the interface for mirroring local state into the cloud.
type Service interface {
	// BackupCombined writes the whole snapshot to the legacy combined document.
	BackupCombined(ctx context.Context) error
	// MigrateAvailable mirrors the granted-but-untransferred track ids.
	MigrateAvailable(ctx context.Context) error
	// MigrateLightSections mirrors the Spotify pairings, the genre tracker,
	// the favorite artists and the pending URL list.
	MigrateLightSections(ctx context.Context) error
	// MigrateQueue mirrors pending queue entries not yet in the cloud.
	MigrateQueue(ctx context.Context) error
	// MigrateTracks mirrors track records not yet in the cloud.
	MigrateTracks(ctx context.Context) error
	// PrintMigrationSummary prints the counters of the whole run.
	PrintMigrationSummary(ctx context.Context)
}

// ServiceImpl implements the Service interface for cloud migrations.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// cloud is the document store client.
	cloud clientfirestore.Client
	// store is the persistent local state.
	store *store.Store
	// stats aggregates counters across every subset of the run.
	stats *MigrationStatistics
	// statsMutex guards stats.
	statsMutex *sync.Mutex
	// newDisplay builds the live progress region for an upload pool.
	newDisplay func(workerCount int) *display.Display
}

// NewService creates and returns a new instance of ServiceImpl.
func NewService(cfg *config.Config, cloud clientfirestore.Client, stateStore *store.Store) Service {
	return &ServiceImpl{
		cfg:        cfg,
		cloud:      cloud,
		store:      stateStore,
		stats:      &MigrationStatistics{StartTime: time.Now()},
		statsMutex: &sync.Mutex{},
		newDisplay: func(workerCount int) *display.Display {
			return display.New(os.Stdout, workerCount)
		},
	}
}
