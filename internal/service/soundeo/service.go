package soundeo

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	clientsoundeo "github.com/matiasbn/dj-wizard/internal/client/soundeo"
	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/display"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/store"
	"github.com/matiasbn/dj-wizard/internal/utils"
)

// Service drains the persistent download queue against the catalog.
type Service interface {
	// DownloadQueue runs a full session: URL acquisition over the queue,
	// then byte transfer over the available set.
	DownloadQueue(ctx context.Context, opts *DownloadQueueOptions) error
	// IngestURLs resolves track and listing URLs into queue entries and
	// returns the number of newly enqueued tracks.
	IngestURLs(ctx context.Context, urls []string, priority store.Priority) (int, error)
	// PrintDownloadSummary prints a formatted summary of the session statistics.
	PrintDownloadSummary(ctx context.Context)
	// ResumePendingURLs re-ingests listing URLs staged by interrupted runs.
	ResumePendingURLs(ctx context.Context, priority store.Priority) (int, error)
}

// ServiceImpl implements the download orchestrator over the snapshot store.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// client talks to the catalog.
	client clientsoundeo.Client
	// store owns the persistent state snapshot.
	store *store.Store
	// budget mirrors the account's download allowance.
	budget *RateBudget
	// grants maps track ids to download URLs acquired in this session.
	grants map[string]string
	// grantsMutex protects concurrent access to grants.
	grantsMutex *sync.Mutex
	// stats tracks session statistics.
	stats *DownloadStatistics
	// statsMutex protects concurrent access to statistics.
	statsMutex *sync.Mutex
	// budgetReconcileMutex serializes the refresh-once-at-zero policy across workers.
	budgetReconcileMutex *sync.Mutex
	// newDisplay builds the live progress display for a session.
	newDisplay func(workerCount int) *display.Display
}

// NewService creates a download orchestrator bound to a catalog client and a state store.
func NewService(cfg *config.Config, client clientsoundeo.Client, stateStore *store.Store) Service {
	var capTotal uint32
	if cfg.RateBudgetOverride > 0 {
		capTotal = uint32(cfg.RateBudgetOverride)
	}

	return &ServiceImpl{
		cfg:                  cfg,
		client:               client,
		store:                stateStore,
		budget:               NewRateBudget(capTotal),
		grants:               make(map[string]string),
		grantsMutex:          new(sync.Mutex),
		stats:                new(DownloadStatistics),
		statsMutex:           new(sync.Mutex),
		budgetReconcileMutex: new(sync.Mutex),
		newDisplay: func(workerCount int) *display.Display {
			return display.New(os.Stdout, workerCount)
		},
	}
}

// DownloadQueue runs a full session: URL acquisition over the queue, then
// byte transfer over the available set.
func (s *ServiceImpl) DownloadQueue(ctx context.Context, opts *DownloadQueueOptions) error {
	if opts == nil {
		opts = &DownloadQueueOptions{}
	}

	s.statsMutex.Lock()
	s.stats.StartTime = time.Now()
	s.statsMutex.Unlock()

	defer func() {
		s.statsMutex.Lock()
		s.stats.EndTime = time.Now()
		s.statsMutex.Unlock()
	}()

	// Ensure the output directory exists before any worker needs it.
	err := os.MkdirAll(s.cfg.DownloadPath, defaultFolderPermissions)
	if err != nil {
		return fmt.Errorf("failed to create download path: %w", err)
	}

	// Re-rank the queue to dense integer keys so decades of millisecond
	// timestamps don't accumulate in the snapshot.
	err = s.store.CompactOrderKeys()
	if err != nil {
		return fmt.Errorf("failed to compact queue order keys: %w", err)
	}

	// Load the authoritative allowance before consuming any of it.
	err = s.budget.RefreshFromClient(ctx, s.client)
	if err != nil {
		return err
	}

	main, bonus := s.budget.Current()
	logger.Infof(ctx, "Download budget: %d main + %d bonus", main, bonus)

	workerCount := int(s.cfg.MaxWorkers)
	if workerCount < 1 {
		workerCount = 1
	}

	progress := s.newDisplay(workerCount)
	defer progress.Close()

	if !opts.ResumeOnly {
		err = s.acquireDownloadURLs(ctx, progress, opts, workerCount)
		if err != nil {
			return err
		}
	}

	err = s.transferAvailableTracks(ctx, progress, workerCount)
	if err != nil {
		return err
	}

	return nil
}

// withTransientRetry runs an operation, retrying transport-class failures in
// place with a jittered pause. Permanent failures surface immediately.
func (s *ServiceImpl) withTransientRetry(ctx context.Context, description string, operation func() error) error {
	attempts := int(s.cfg.RetryAttemptsCount)
	if attempts < 1 {
		attempts = 1
	}

	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		err = operation()
		if err == nil || !isRetryableFailure(err) {
			return err
		}

		if ctx.Err() != nil {
			return err
		}

		if attempt < attempts {
			logger.Debugf(ctx, "%s failed (attempt %d/%d), retrying: %v", description, attempt, attempts, err)
			utils.RandomPause(s.retryPauseBounds())
		}
	}

	return err
}

// retryPauseBounds returns the configured retry pause window, widened when
// the bounds collapse because RandomPause needs a positive spread.
func (s *ServiceImpl) retryPauseBounds() (time.Duration, time.Duration) {
	minPause := s.cfg.ParsedMinRetryPause
	maxPause := s.cfg.ParsedMaxRetryPause

	if minPause <= 0 {
		minPause = defaultMinRetryPause
	}

	if maxPause <= minPause {
		maxPause = minPause + defaultMaxRetryPause
	}

	return minPause, maxPause
}

// withSessionRetry runs an operation and, when the session has expired,
// rotates the cookie through the account handshake and retries exactly once.
func (s *ServiceImpl) withSessionRetry(ctx context.Context, operation func() error) error {
	err := operation()
	if err == nil || !errors.Is(err, clientsoundeo.ErrSessionExpired) {
		return err
	}

	logger.Warn(ctx, "Catalog session expired, attempting a cookie rotation")

	if !s.recoverSession(ctx) {
		return err
	}

	return operation()
}

// recoverSession rotates the session cookie through the account handshake and
// reports whether a retry is worthwhile.
func (s *ServiceImpl) recoverSession(ctx context.Context) bool {
	err := s.budget.RefreshFromClient(ctx, s.client)
	if err != nil {
		logger.Warnf(ctx, "Session recovery failed: %v", err)

		return false
	}

	return true
}

// storeGrant remembers a download URL acquired in this session.
func (s *ServiceImpl) storeGrant(trackID, downloadURL string) {
	s.grantsMutex.Lock()
	defer s.grantsMutex.Unlock()

	s.grants[trackID] = downloadURL
}

// sessionGrant returns the download URL acquired for the track in this
// session, if any.
func (s *ServiceImpl) sessionGrant(trackID string) (string, bool) {
	s.grantsMutex.Lock()
	defer s.grantsMutex.Unlock()

	downloadURL, ok := s.grants[trackID]

	return downloadURL, ok
}

// trackRecordFromMetadata converts catalog metadata into a snapshot record.
func trackRecordFromMetadata(metadata *clientsoundeo.TrackMetadata) *store.TrackRecord {
	return &store.TrackRecord{
		ID:           metadata.IDString(),
		Title:        metadata.Title,
		TrackURL:     metadata.TrackURL,
		Cover:        metadata.Cover,
		Release:      metadata.Release,
		Label:        metadata.Label,
		Genre:        metadata.Genre,
		Date:         metadata.Date,
		BPM:          metadata.BPM,
		Key:          metadata.Key,
		Size:         metadata.Size,
		Downloadable: metadata.Downloadable,
	}
}
