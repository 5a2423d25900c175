package soundeo

import (
	"context"
	"fmt"
	"strings"

	clientsoundeo "github.com/matiasbn/dj-wizard/internal/client/soundeo"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/store"
)

// IngestURLs resolves raw catalog URLs into queue entries and returns the
// number of newly enqueued tracks. Track-page URLs validate against the
// catalog; anything else is scraped as a listing page. Bad URLs are logged
// and skipped so one dead link doesn't sink a batch.
func (s *ServiceImpl) IngestURLs(ctx context.Context, urls []string, priority store.Priority) (int, error) {
	enqueued := 0

	for _, rawURL := range urls {
		rawURL = strings.TrimSpace(rawURL)
		if rawURL == "" {
			continue
		}

		if ctx.Err() != nil {
			return enqueued, ctx.Err()
		}

		count, err := s.ingestURL(ctx, rawURL, priority)
		if err != nil {
			logger.Errorf(ctx, "Failed to ingest %s: %v", rawURL, err)

			continue
		}

		enqueued += count
	}

	return enqueued, nil
}

// ResumePendingURLs re-ingests listing URLs staged by interrupted runs.
func (s *ServiceImpl) ResumePendingURLs(ctx context.Context, priority store.Priority) (int, error) {
	pending := s.store.ListPendingURLs()
	if len(pending) == 0 {
		return 0, nil
	}

	logger.Infof(ctx, "Resuming %d staged listing URLs", len(pending))

	return s.IngestURLs(ctx, pending, priority)
}

// ingestURL dispatches one URL to the track or listing flow.
func (s *ServiceImpl) ingestURL(ctx context.Context, rawURL string, priority store.Priority) (int, error) {
	if trackID, isTrackURL := clientsoundeo.ExtractTrackID(rawURL); isTrackURL {
		return s.ingestTrack(ctx, trackID, priority)
	}

	return s.ingestListing(ctx, rawURL, priority)
}

// ingestTrack validates a single track id against the catalog and enqueues it.
func (s *ServiceImpl) ingestTrack(ctx context.Context, trackID string, priority store.Priority) (int, error) {
	var metadata *clientsoundeo.TrackMetadata

	err := s.withSessionRetry(ctx, func() error {
		return s.withTransientRetry(ctx, "metadata fetch", func() error {
			var fetchErr error
			metadata, fetchErr = s.client.GetTrackInfo(ctx, trackID)

			return fetchErr
		})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch track %s: %w", trackID, err)
	}

	err = s.store.UpsertTrack(trackRecordFromMetadata(metadata))
	if err != nil {
		return 0, err
	}

	count, err := s.enqueueTrack(ctx, trackID, priority)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		logger.Infof(ctx, "Enqueued '%s' with %s priority", metadata.Title, priority)
	}

	return count, nil
}

// ingestListing scrapes a listing page and enqueues every listed track. The
// URL is staged in the snapshot first so an interrupted scrape resumes on
// the next run.
func (s *ServiceImpl) ingestListing(ctx context.Context, listingURL string, priority store.Priority) (int, error) {
	_, err := s.store.AddPendingURL(listingURL)
	if err != nil {
		return 0, err
	}

	var trackIDs []string

	err = s.withSessionRetry(ctx, func() error {
		return s.withTransientRetry(ctx, "listing scrape", func() error {
			var fetchErr error
			trackIDs, fetchErr = s.client.FetchListing(ctx, listingURL)

			return fetchErr
		})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scrape listing: %w", err)
	}

	enqueued := 0

	for _, trackID := range trackIDs {
		count, enqueueErr := s.enqueueTrack(ctx, trackID, priority)
		if enqueueErr != nil {
			return enqueued, enqueueErr
		}

		enqueued += count
	}

	// Every listed track made it into the queue; drop the staging entry.
	_, err = s.store.RemovePendingURL(listingURL)
	if err != nil {
		return enqueued, err
	}

	logger.Infof(ctx, "Enqueued %d of %d tracks from the listing", enqueued, len(trackIDs))

	return enqueued, nil
}

// enqueueTrack adds a track to the queue, or re-prioritizes it when it is
// already waiting.
func (s *ServiceImpl) enqueueTrack(ctx context.Context, trackID string, priority store.Priority) (int, error) {
	added, err := s.store.Enqueue(trackID, priority)
	if err != nil {
		return 0, err
	}

	if added {
		return 1, nil
	}

	// Already queued or already granted: honor the requested priority when
	// the entry is still in the queue.
	updated, err := s.store.UpdatePriority(trackID, priority)
	if err != nil {
		return 0, err
	}

	if updated {
		logger.Debugf(ctx, "Track %s was already queued, priority set to %s", trackID, priority)
	}

	return 0, nil
}
