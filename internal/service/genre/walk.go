package genre

import (
	"context"
	"fmt"

	clientsoundeo "github.com/matiasbn/dj-wizard/internal/client/soundeo"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/store"
)

// RunGenre walks one tracked genre's listing pages from the last page back
// to the first, so tracks surface newest-first in the queue, and advances
// the genre's date watermark as pages complete.
func (s *ServiceImpl) RunGenre(ctx context.Context, genreID uint32) (*WalkSummary, error) {
	genre, isTracked := s.store.GetGenre(genreID)
	if !isTracked {
		return nil, fmt.Errorf("%w: %d", ErrGenreNotTracked, genreID)
	}

	// The watermark captured here is the enqueue threshold for the whole
	// walk. Pages advance the stored watermark as they complete; comparing
	// against the moving value would suppress fresh tracks on later pages.
	walkStart := genre.LastCheckedDate
	if walkStart == "" {
		walkStart = defaultWalkStart
	}

	today := s.now().Format(dateLayout)

	logger.Infof(ctx, "Walking genre '%s' from %s to %s", genre.GenreName, walkStart, today)

	summary := &WalkSummary{
		GenreID:   genreID,
		GenreName: genre.GenreName,
		Watermark: genre.LastCheckedDate,
	}

	lastPage, err := s.findLastPage(ctx, genreID, walkStart, today)
	if err != nil {
		return summary, err
	}

	if lastPage == 0 {
		logger.Infof(ctx, "Genre '%s' has no listing pages in the range", genre.GenreName)

		return summary, nil
	}

	emptyStreak := 0

	for page := lastPage; page >= 1; page-- {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		enqueued, maxDateSeen, walkErr := s.walkPage(ctx, genreID, walkStart, today, page, summary)

		// Even a partial page pushes the crash-resume cursor to the newest
		// date observed, so a failed run resumes past the tracks it already
		// saw. The store refuses to move it backwards.
		if maxDateSeen != "" {
			_, advanceErr := s.store.AdvanceGenreWatermark(genreID, maxDateSeen)
			if advanceErr != nil && walkErr == nil {
				walkErr = advanceErr
			}
		}

		if walkErr != nil {
			return summary, walkErr
		}

		if enqueued == 0 {
			emptyStreak++
			if emptyStreak >= maxEmptyPages {
				logger.Infof(ctx, "Stopping the walk of '%s' after %d pages without new tracks",
					genre.GenreName, maxEmptyPages)

				break
			}
		} else {
			emptyStreak = 0
		}
	}

	if walked, stillTracked := s.store.GetGenre(genreID); stillTracked {
		summary.Watermark = walked.LastCheckedDate
	}

	logger.Infof(ctx, "Genre '%s': %d pages, %d tracks seen, %d enqueued, watermark %s",
		genre.GenreName, summary.PagesVisited, summary.TracksSeen, summary.TracksEnqueued, summary.Watermark)

	return summary, nil
}

// findLastPage probes page numbers upward until the catalog answers 404.
func (s *ServiceImpl) findLastPage(ctx context.Context, genreID uint32, start, end string) (int, error) {
	for page := 1; page <= probePageCap; page++ {
		err := s.limiter.Wait(ctx)
		if err != nil {
			return 0, err
		}

		exists, err := s.client.ProbePageExists(ctx, s.listingPageURL(genreID, start, end, page))
		if err != nil {
			return 0, fmt.Errorf("failed to probe page %d: %w", page, err)
		}

		if !exists {
			return page - 1, nil
		}
	}

	return probePageCap, nil
}

// walkPage scrapes one listing page, enqueues its fresh tracks and returns
// the enqueue count plus the newest release date seen on the page.
func (s *ServiceImpl) walkPage(
	ctx context.Context,
	genreID uint32,
	walkStart string,
	today string,
	page int,
	summary *WalkSummary,
) (int, string, error) {
	pageURL := s.listingPageURL(genreID, walkStart, today, page)

	err := s.limiter.Wait(ctx)
	if err != nil {
		return 0, "", err
	}

	trackIDs, err := s.client.FetchListing(ctx, pageURL)
	if err != nil {
		return 0, "", fmt.Errorf("failed to scrape page %d: %w", page, err)
	}

	summary.PagesVisited++

	logger.Debugf(ctx, "Page %d lists %d tracks", page, len(trackIDs))

	enqueued := 0
	maxDateSeen := ""

	for _, trackID := range trackIDs {
		if ctx.Err() != nil {
			return enqueued, maxDateSeen, ctx.Err()
		}

		err = s.limiter.Wait(ctx)
		if err != nil {
			return enqueued, maxDateSeen, err
		}

		metadata, fetchErr := s.client.GetTrackInfo(ctx, trackID)
		if fetchErr != nil {
			logger.Warnf(ctx, "Skipping track %s: %v", trackID, fetchErr)

			continue
		}

		summary.TracksSeen++

		// The cursor follows the newest date on the page, enqueued or not.
		// ISO "YYYY-MM-DD" dates compare correctly as strings.
		if metadata.Date > maxDateSeen {
			maxDateSeen = metadata.Date
		}

		if metadata.Date < walkStart {
			continue
		}

		if !s.shouldEnqueue(trackID, metadata) {
			continue
		}

		err = s.store.UpsertTrack(trackRecordFromMetadata(metadata))
		if err != nil {
			return enqueued, maxDateSeen, err
		}

		added, enqueueErr := s.store.Enqueue(trackID, store.PriorityNormal)
		if enqueueErr != nil {
			return enqueued, maxDateSeen, enqueueErr
		}

		if added {
			enqueued++
			summary.TracksEnqueued++

			logger.Debugf(ctx, "Enqueued '%s' (%s)", metadata.Title, metadata.Date)
		}
	}

	return enqueued, maxDateSeen, nil
}

// shouldEnqueue filters out tracks the queue must not pick up again:
// restricted tombstones, stems and anything already fetched.
func (s *ServiceImpl) shouldEnqueue(trackID string, metadata *clientsoundeo.TrackMetadata) bool {
	if !metadata.Downloadable || metadata.Downloaded || metadata.Stem {
		return false
	}

	record, isKnown := s.store.GetTrack(trackID)
	if isKnown && (record.AlreadyDownloaded || !record.Downloadable) {
		return false
	}

	return true
}

// listingPageURL renders the filtered listing page URL for one walk step.
func (s *ServiceImpl) listingPageURL(genreID uint32, start, end string, page int) string {
	return fmt.Sprintf(listingPageURLFormat, s.client.GetBaseURL(), genreID, start, end, page)
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
