package mirror

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	clientfirestore "github.com/matiasbn/dj-wizard/internal/client/firestore"
	"github.com/matiasbn/dj-wizard/internal/display"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/store"
)

// batchFIFO is the mutex-guarded batch queue the upload pool drains.
type batchFIFO struct {
	// mu protects batches.
	mu sync.Mutex
	// batches holds the not-yet-uploaded batches.
	batches []migrationBatch
}

// pop removes and returns the head batch.
func (f *batchFIFO) pop() (migrationBatch, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.batches) == 0 {
		return migrationBatch{}, false
	}

	batch := f.batches[0]
	f.batches = f.batches[1:]

	return batch, true
}

// MigrateTracks mirrors every track record the cloud does not hold yet. The
// remote collection is listed once to seed the migration bitmap, so records
// uploaded by an earlier run (or another machine) are only flagged locally.
func (s *ServiceImpl) MigrateTracks(ctx context.Context) error {
	remoteIDs, err := s.cloud.ListAllDocumentIDs(ctx, CollectionTracks)
	if err != nil {
		return fmt.Errorf("failed to list mirrored tracks: %w", err)
	}

	if _, err = s.store.SeedMigratedTracks(remoteIDs); err != nil {
		return fmt.Errorf("failed to seed the track bitmap: %w", err)
	}

	logger.Infof(ctx, "Cloud mirror holds %d track documents", len(remoteIDs))

	var (
		candidates      []clientfirestore.Document
		alreadyMirrored []string
	)

	for _, record := range s.store.ListPendingMirrorTracks() {
		if s.store.IsTrackMigrated(record.ID) {
			alreadyMirrored = append(alreadyMirrored, record.ID)

			continue
		}

		candidates = append(candidates, clientfirestore.Document{
			ID:     record.ID,
			Fields: trackDocumentFields(&record),
		})
	}

	if err = s.flagWithoutUpload(ctx, alreadyMirrored, s.store.MarkTracksMirrored); err != nil {
		return err
	}

	return s.uploadInBatches(ctx, CollectionTracks, candidates, s.store.MarkTracksMirrored)
}

// MigrateQueue mirrors every pending queue entry the cloud does not hold yet,
// following the same bitmap-seeded shape as MigrateTracks.
func (s *ServiceImpl) MigrateQueue(ctx context.Context) error {
	remoteIDs, err := s.cloud.ListAllDocumentIDs(ctx, CollectionQueue)
	if err != nil {
		return fmt.Errorf("failed to list mirrored queue entries: %w", err)
	}

	if _, err = s.store.SeedMigratedQueues(remoteIDs); err != nil {
		return fmt.Errorf("failed to seed the queue bitmap: %w", err)
	}

	logger.Infof(ctx, "Cloud mirror holds %d queue documents", len(remoteIDs))

	var (
		candidates      []clientfirestore.Document
		alreadyMirrored []string
	)

	for _, entry := range s.store.ListPendingMirrorQueue() {
		if s.store.IsQueueMigrated(entry.TrackID) {
			alreadyMirrored = append(alreadyMirrored, entry.TrackID)

			continue
		}

		candidates = append(candidates, clientfirestore.Document{
			ID:     entry.TrackID,
			Fields: queueDocumentFields(&entry),
		})
	}

	if err = s.flagWithoutUpload(ctx, alreadyMirrored, s.store.MarkQueueMirrored); err != nil {
		return err
	}

	return s.uploadInBatches(ctx, CollectionQueue, candidates, s.store.MarkQueueMirrored)
}

// flagWithoutUpload marks records the bitmap already covers. They exist in
// the cloud, so only the local mirrored flag is missing.
func (s *ServiceImpl) flagWithoutUpload(
	ctx context.Context,
	documentIDs []string,
	markMirrored func([]string) error,
) error {
	if len(documentIDs) == 0 {
		return nil
	}

	if err := markMirrored(documentIDs); err != nil {
		return fmt.Errorf("failed to flag already mirrored documents: %w", err)
	}

	s.recordSkips(len(documentIDs))
	logger.Infof(ctx, "Flagged %d documents the mirror already holds", len(documentIDs))

	return nil
}

// uploadInBatches partitions the documents into fixed-size batches and drains
// them through the migration worker pool. Batch failures are recorded and do
// not stop the pool; the failed documents simply stay unmirrored for the
// next run.
func (s *ServiceImpl) uploadInBatches(
	ctx context.Context,
	collection string,
	documents []clientfirestore.Document,
	markMirrored func([]string) error,
) error {
	s.addCandidates(len(documents))

	if len(documents) == 0 {
		logger.Infof(ctx, "Nothing new to mirror into '%s'", collection)

		return nil
	}

	batches := partitionBatches(documents)

	logger.Infof(ctx, "Mirroring %d documents into '%s' (%d batches)",
		len(documents), collection, len(batches))

	workerCount := int(s.cfg.MigrationWorkers)
	if workerCount < 1 {
		workerCount = 1
	}

	if workerCount > len(batches) {
		workerCount = len(batches)
	}

	progress := s.newDisplay(workerCount)
	defer progress.Close()

	fifo := &batchFIFO{batches: batches}

	// Worker slots double as the concurrency limiter and the display line index.
	slots := make(chan int, workerCount)
	for slot := 0; slot < workerCount; slot++ {
		slots <- slot
	}

	var waitGroup sync.WaitGroup

	for range batches {
		// Check if context was canceled (CTRL+C pressed) - stop queueing new work.
		select {
		case <-ctx.Done():
			goto waitForCompletion
		default:
		}

		waitGroup.Add(1)

		go func() {
			defer waitGroup.Done()

			slot := <-slots

			defer func() {
				slots <- slot
			}()

			if ctx.Err() != nil {
				return
			}

			batch, ok := fifo.pop()
			if !ok {
				return
			}

			s.uploadBatch(ctx, collection, &batch, markMirrored, slot, progress)
			s.updateMirrorAggregate(progress, collection)
		}()
	}

waitForCompletion:
	// Wait for all in-flight batches to complete.
	waitGroup.Wait()

	return nil
}

// uploadBatch writes one batch and marks its documents mirrored on success.
func (s *ServiceImpl) uploadBatch(
	ctx context.Context,
	collection string,
	batch *migrationBatch,
	markMirrored func([]string) error,
	slot int,
	progress *display.Display,
) {
	progress.SetWorker(slot, "[%d] batch %s: writing %d documents", slot+1, batch.id, len(batch.documents))

	if err := s.cloud.BatchWrite(ctx, collection, batch.documents); err != nil {
		logger.Errorf(ctx, "Batch %s failed: %v", batch.id, err)
		s.recordBatchFailure(len(batch.documents), fmt.Errorf("batch %s (%s): %w", batch.id, collection, err))
		progress.SetWorker(slot, "[%d] batch %s: failed", slot+1, batch.id)

		return
	}

	if markMirrored != nil {
		if err := markMirrored(batch.documentIDs); err != nil {
			// The documents are in the cloud; the local flag catches up on
			// the next run via the bitmap.
			logger.Errorf(ctx, "Failed to flag batch %s as mirrored: %v", batch.id, err)
			s.recordBatchFailure(len(batch.documents), fmt.Errorf("batch %s (%s): %w", batch.id, collection, err))

			return
		}
	}

	s.recordBatchSuccess(len(batch.documents))
	progress.SetWorker(slot, "[%d] batch %s: done", slot+1, batch.id)
}

// updateMirrorAggregate refreshes the aggregate display line with the current
// migration counters, throughput and ETA.
func (s *ServiceImpl) updateMirrorAggregate(progress *display.Display, collection string) {
	s.statsMutex.Lock()
	processed := s.stats.MigratedCount + s.stats.FailedCount
	total := s.stats.CandidateCount
	failed := s.stats.FailedCount
	elapsed := time.Since(s.stats.StartTime)
	s.statsMutex.Unlock()

	rate := float64(processed) / math.Max(elapsed.Seconds(), 0.001)

	etaText := "done"
	if processed < total && rate > 0 {
		remaining := time.Duration(float64(total-processed)/rate) * time.Second
		etaText = formatDuration(remaining)
	}

	progress.SetAggregate("Mirroring %s: %d/%d documents, %d failed, %.1f docs/s, ETA %s",
		collection, processed, total, failed, rate, etaText)
}

// partitionBatches splits documents into uuid-tagged fixed-size batches.
func partitionBatches(documents []clientfirestore.Document) []migrationBatch {
	batches := make([]migrationBatch, 0, (len(documents)+migrationBatchSize-1)/migrationBatchSize)

	for start := 0; start < len(documents); start += migrationBatchSize {
		end := start + migrationBatchSize
		if end > len(documents) {
			end = len(documents)
		}

		chunk := documents[start:end]

		documentIDs := make([]string, 0, len(chunk))
		for _, document := range chunk {
			documentIDs = append(documentIDs, document.ID)
		}

		batches = append(batches, migrationBatch{
			id:          uuid.NewString()[:8],
			documents:   chunk,
			documentIDs: documentIDs,
		})
	}

	return batches
}

// trackDocumentFields renders a track record as cloud document fields.
func trackDocumentFields(record *store.TrackRecord) map[string]any {
	return map[string]any{
		"id":                 record.ID,
		"title":              record.Title,
		"track_url":          record.TrackURL,
		"cover":              record.Cover,
		"release":            record.Release,
		"label":              record.Label,
		"genre":              record.Genre,
		"date":               record.Date,
		"bpm":                int64(record.BPM),
		"key":                record.Key,
		"size_bytes":         record.Size,
		"downloadable":       record.Downloadable,
		"already_downloaded": record.AlreadyDownloaded,
	}
}

// queueDocumentFields renders a queue entry as cloud document fields.
func queueDocumentFields(entry *store.QueuedEntry) map[string]any {
	return map[string]any{
		"track_id":  entry.TrackID,
		"priority":  string(entry.Priority),
		"order_key": entry.OrderKey,
		"added_at":  entry.AddedAt,
	}
}
