package soundeo

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	clientsoundeo "github.com/matiasbn/dj-wizard/internal/client/soundeo"
	"github.com/matiasbn/dj-wizard/internal/display"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/store"
)

// entryFIFO is the mutex-guarded work list the acquisition pool drains. It is
// fed once from the pre-sorted snapshot; entries enqueued mid-run surface in
// the next session.
type entryFIFO struct {
	// mu protects entries.
	mu sync.Mutex
	// entries holds the not-yet-processed queue entries in drain order.
	entries []store.QueuedEntry
}

// newEntryFIFO wraps a pre-sorted entry list.
func newEntryFIFO(entries []store.QueuedEntry) *entryFIFO {
	return &entryFIFO{entries: entries}
}

// pop removes and returns the head entry.
func (f *entryFIFO) pop() (store.QueuedEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.entries) == 0 {
		return store.QueuedEntry{}, false
	}

	entry := f.entries[0]
	f.entries = f.entries[1:]

	return entry, true
}

// pushFront returns an entry to the head, keeping its original order key.
func (f *entryFIFO) pushFront(entry store.QueuedEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = append([]store.QueuedEntry{entry}, f.entries...)
}

// size returns the number of entries still waiting.
func (f *entryFIFO) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.entries)
}

// acquisitionRequest carries the shared session state one acquisition worker needs.
type acquisitionRequest struct {
	// entry is the queue entry being processed.
	entry store.QueuedEntry
	// slot is the worker's display line index.
	slot int
	// progress renders the live session state.
	progress *display.Display
	// fifo is the shared work list, needed to push the entry back on suspension.
	fifo *entryFIFO
	// sessionStopped stops every worker once set.
	sessionStopped *atomic.Bool
	// redownload fetches tracks even when their record says already downloaded.
	redownload bool
}

// acquireDownloadURLs runs the first phase of a session: it drains the
// persistent queue through a worker pool, trading one budget unit per track
// for a download URL and promoting granted tracks to the available set.
func (s *ServiceImpl) acquireDownloadURLs(
	ctx context.Context,
	progress *display.Display,
	opts *DownloadQueueOptions,
	workerCount int,
) error {
	entries := s.store.DequeueSorted()
	if opts.GenreFilter != "" {
		entries = s.filterEntriesByGenre(ctx, entries, opts.GenreFilter)
	}

	if len(entries) == 0 {
		logger.Info(ctx, "Download queue is empty, nothing to acquire")

		return nil
	}

	logger.Infof(ctx, "Acquiring download URLs for %d queued tracks", len(entries))

	fifo := newEntryFIFO(entries)

	var sessionStopped atomic.Bool

	// Worker slots double as the concurrency limiter and the display line index.
	slots := make(chan int, workerCount)
	for slot := 0; slot < workerCount; slot++ {
		slots <- slot
	}

	var waitGroup sync.WaitGroup

	for range entries {
		// Check if context was canceled (CTRL+C pressed) - stop queueing new work.
		select {
		case <-ctx.Done():
			goto waitForCompletion
		default:
		}

		if sessionStopped.Load() {
			break
		}

		waitGroup.Add(1)

		go func() {
			defer waitGroup.Done()

			slot := <-slots

			defer func() {
				slots <- slot
			}()

			if ctx.Err() != nil || sessionStopped.Load() {
				return
			}

			entry, ok := fifo.pop()
			if !ok {
				return
			}

			s.processQueueEntry(ctx, &acquisitionRequest{
				entry:          entry,
				slot:           slot,
				progress:       progress,
				fifo:           fifo,
				sessionStopped: &sessionStopped,
				redownload:     opts.Redownload,
			})

			s.updateAcquisitionAggregate(progress, len(entries))
		}()
	}

waitForCompletion:
	// Wait for all in-flight acquisitions to complete.
	waitGroup.Wait()

	if sessionStopped.Load() {
		logger.Warnf(ctx, "Acquisition stopped early, %d tracks stay queued for the next session", fifo.size())
	}

	return nil
}

// filterEntriesByGenre keeps only entries whose track record carries the
// given genre. Entries without metadata stay queued for an unfiltered run.
func (s *ServiceImpl) filterEntriesByGenre(
	ctx context.Context,
	entries []store.QueuedEntry,
	genre string,
) []store.QueuedEntry {
	filtered := make([]store.QueuedEntry, 0, len(entries))

	for _, entry := range entries {
		record, isKnown := s.store.GetTrack(entry.TrackID)
		if !isKnown {
			continue
		}

		if strings.EqualFold(record.Genre, genre) {
			filtered = append(filtered, entry)
		}
	}

	logger.Infof(ctx, "Genre filter '%s' matched %d of %d queued tracks", genre, len(filtered), len(entries))

	return filtered
}

// processQueueEntry walks one queue entry through the acquisition flow:
// metadata, skip checks, budget, grant.
func (s *ServiceImpl) processQueueEntry(ctx context.Context, req *acquisitionRequest) {
	trackID := req.entry.TrackID
	req.progress.SetWorker(req.slot, "[%d] %s: fetching metadata", req.slot+1, s.store.TrackTitle(trackID))

	var metadata *clientsoundeo.TrackMetadata

	err := s.withSessionRetry(ctx, func() error {
		return s.withTransientRetry(ctx, "metadata fetch", func() error {
			var fetchErr error
			metadata, fetchErr = s.client.GetTrackInfo(ctx, trackID)

			return fetchErr
		})
	})
	if err != nil {
		s.handleMetadataFailure(ctx, req, err)

		return
	}

	// Persist fresh metadata so titles and genre filters survive restarts.
	err = s.store.UpsertTrack(trackRecordFromMetadata(metadata))
	if err != nil {
		logger.Errorf(ctx, "Failed to persist metadata for track %s: %v", trackID, err)
		s.recordError(trackID, FailurePersistence, err)
		s.recordDisposition(DispositionFailed)

		return
	}

	title := metadata.Title

	if !metadata.Downloadable {
		logger.Debugf(ctx, "Track '%s' is restricted, dropping it from the queue", title)
		s.dropQueueEntry(ctx, trackID, DispositionNotDownloadable)

		return
	}

	if !req.redownload && s.isAlreadyDownloaded(trackID, metadata) {
		logger.Debugf(ctx, "Track '%s' was already downloaded, skipping", title)
		s.dropQueueEntry(ctx, trackID, DispositionAlreadyDownloaded)

		return
	}

	if s.store.IsAvailable(trackID) {
		logger.Debugf(ctx, "Track '%s' already holds a download URL, skipping", title)
		s.dropQueueEntry(ctx, trackID, DispositionAlreadyAvailable)

		return
	}

	// The grant request burns one allowance unit server-side even when it is
	// refused, so the local unit is consumed before asking.
	if !s.consumeBudgetUnit(ctx, req) {
		return
	}

	req.progress.SetWorker(req.slot, "[%d] %s: acquiring download URL", req.slot+1, title)
	s.acquireGrant(ctx, req, metadata)
}

// isAlreadyDownloaded reports whether the track was fetched before, either by
// this tool (snapshot record) or by the account itself (catalog metadata).
func (s *ServiceImpl) isAlreadyDownloaded(trackID string, metadata *clientsoundeo.TrackMetadata) bool {
	if metadata.Downloaded {
		return true
	}

	record, isKnown := s.store.GetTrack(trackID)

	return isKnown && record.AlreadyDownloaded
}

// handleMetadataFailure settles a queue entry whose metadata never arrived.
func (s *ServiceImpl) handleMetadataFailure(ctx context.Context, req *acquisitionRequest, err error) {
	trackID := req.entry.TrackID

	switch {
	case errors.Is(err, clientsoundeo.ErrTrackNotFound):
		// A dead id can never be fetched. Record a tombstone so the genre
		// scheduler skips it too, then drop the entry.
		upsertErr := s.store.UpsertTrack(&store.TrackRecord{ID: trackID})
		if upsertErr != nil {
			logger.Errorf(ctx, "Failed to persist tombstone for track %s: %v", trackID, upsertErr)
		}

		logger.Warnf(ctx, "Track %s no longer exists in the catalog", trackID)
		s.dropQueueEntry(ctx, trackID, DispositionNotDownloadable)
	case errors.Is(err, clientsoundeo.ErrSessionExpired):
		// The session stayed dead through a cookie rotation; every later
		// entry would fail the same way.
		logger.Errorf(ctx, "Catalog session is unrecoverable: %v", err)
		s.recordError(trackID, FailureAuthExpired, err)
		s.haltSession(req)
	case errors.Is(err, context.Canceled):
		s.haltSession(req)
	default:
		logger.Errorf(ctx, "Failed to fetch metadata for track %s: %v", trackID, err)
		s.recordError(trackID, classifyFailure(err), err)
		s.recordDisposition(DispositionFailed)
	}
}

// consumeBudgetUnit takes one unit from the local budget, reconciling with
// the catalog once when the local count hits zero. It returns false when the
// session must suspend.
func (s *ServiceImpl) consumeBudgetUnit(ctx context.Context, req *acquisitionRequest) bool {
	refreshed := false

	for {
		if s.budget.TryConsume() {
			return true
		}

		if refreshed {
			s.suspendOnSpentBudget(ctx, req)

			return false
		}

		hasUnits, err := s.reconcileBudget(ctx)
		refreshed = true

		if err != nil {
			logger.Errorf(ctx, "Failed to reconcile the download budget: %v", err)
			s.recordError(req.entry.TrackID, classifyFailure(err), err)
			s.suspendOnSpentBudget(ctx, req)

			return false
		}

		if !hasUnits {
			s.suspendOnSpentBudget(ctx, req)

			return false
		}
	}
}

// reconcileBudget refreshes the budget from the catalog when the local count
// is zero. The mutex keeps concurrent workers from storming the handshake.
func (s *ServiceImpl) reconcileBudget(ctx context.Context) (bool, error) {
	s.budgetReconcileMutex.Lock()
	defer s.budgetReconcileMutex.Unlock()

	// Another worker may have refreshed while this one waited on the mutex.
	if s.budget.Remaining() > 0 {
		return true, nil
	}

	err := s.budget.RefreshFromClient(ctx, s.client)
	if err != nil {
		return false, err
	}

	return s.budget.Remaining() > 0, nil
}

// suspendOnSpentBudget ends the session on an exhausted allowance. The entry
// keeps its order key so the next session drains it first.
func (s *ServiceImpl) suspendOnSpentBudget(ctx context.Context, req *acquisitionRequest) {
	s.haltSession(req)
	s.markBudgetExhausted()

	logger.Warnf(ctx, "Download budget exhausted, %d tracks stay queued", req.fifo.size())
}

// haltSession pushes the entry back to the head of the work list and stops
// every worker.
func (s *ServiceImpl) haltSession(req *acquisitionRequest) {
	req.fifo.pushFront(req.entry)
	req.sessionStopped.Store(true)
}

// acquireGrant spends the already-consumed budget unit on a download URL and
// promotes the track to the available set.
func (s *ServiceImpl) acquireGrant(
	ctx context.Context,
	req *acquisitionRequest,
	metadata *clientsoundeo.TrackMetadata,
) {
	trackID := req.entry.TrackID

	var downloadURL string

	err := s.withSessionRetry(ctx, func() error {
		return s.withTransientRetry(ctx, "download URL acquisition", func() error {
			var grantErr error
			downloadURL, grantErr = s.client.GetDownloadURL(ctx, trackID)

			return grantErr
		})
	})

	switch {
	case err == nil:
		promoteErr := s.store.PromoteToAvailable(trackID)
		if promoteErr != nil {
			logger.Errorf(ctx, "Failed to promote track %s to the available set: %v", trackID, promoteErr)
			s.recordError(trackID, FailurePersistence, promoteErr)
			s.recordDisposition(DispositionFailed)

			return
		}

		s.storeGrant(trackID, downloadURL)
		s.recordDisposition(DispositionDownloaded)
		logger.Debugf(ctx, "Acquired download URL for '%s'", metadata.Title)
	case errors.Is(err, clientsoundeo.ErrRateExhausted):
		// The catalog's zero beats the local count.
		s.budget.Exhaust()
		s.recordError(trackID, FailureRateExhausted, err)
		s.suspendOnSpentBudget(ctx, req)
	case errors.Is(err, clientsoundeo.ErrNotDownloadable):
		if metadata.Stem {
			logger.Debugf(ctx, "Track '%s' is a stem part, dropping it from the queue", metadata.Title)
			s.dropQueueEntry(ctx, trackID, DispositionStemTrack)

			return
		}

		// A refusal on a track the status call sold as downloadable: keep it
		// queued for a later session. The spent unit is not refunded.
		logger.Warnf(ctx, "Catalog refused track '%s': %v", metadata.Title, err)
		s.recordError(trackID, FailureNotDownloadable, err)
		s.recordDisposition(DispositionFailed)
	case errors.Is(err, clientsoundeo.ErrSessionExpired):
		logger.Errorf(ctx, "Catalog session is unrecoverable: %v", err)
		s.recordError(trackID, FailureAuthExpired, err)
		s.haltSession(req)
	case errors.Is(err, context.Canceled):
		s.haltSession(req)
	default:
		logger.Errorf(ctx, "Failed to acquire download URL for track %s: %v", trackID, err)
		s.recordError(trackID, classifyFailure(err), err)
		s.recordDisposition(DispositionFailed)
	}
}

// dropQueueEntry removes the entry from the persistent queue, marking the
// track restricted when the disposition says so.
func (s *ServiceImpl) dropQueueEntry(ctx context.Context, trackID string, disposition Disposition) {
	if disposition == DispositionNotDownloadable || disposition == DispositionStemTrack {
		err := s.store.MarkNotDownloadable(trackID)
		if err != nil {
			logger.Errorf(ctx, "Failed to mark track %s restricted: %v", trackID, err)
			s.recordError(trackID, FailurePersistence, err)
		}
	}

	_, err := s.store.RemoveQueued(trackID)
	if err != nil {
		logger.Errorf(ctx, "Failed to remove track %s from the queue: %v", trackID, err)
		s.recordError(trackID, FailurePersistence, err)
		s.recordDisposition(DispositionFailed)

		return
	}

	s.recordDisposition(disposition)
}

// updateAcquisitionAggregate refreshes the aggregate display line with the
// current acquisition counters.
func (s *ServiceImpl) updateAcquisitionAggregate(progress *display.Display, total int) {
	s.statsMutex.Lock()
	processed := s.stats.TotalProcessed
	acquired := s.stats.URLsAcquired
	failed := s.stats.Failed
	s.statsMutex.Unlock()

	progress.SetAggregate(
		"Acquiring URLs: %d/%d processed, %d granted, %d failed, budget %d",
		processed, total, acquired, failed, s.budget.Remaining(),
	)
}
