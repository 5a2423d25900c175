package spotify

import (
	"context"
	"fmt"
	"time"

	"github.com/matiasbn/dj-wizard/internal/logger"
)

// PairStatistics aggregates the outcome of one playlist pairing run.
type PairStatistics struct {
	// StartTime is when the run started.
	StartTime time.Time
	// EndTime is when the run finished.
	EndTime time.Time
	// PlaylistName is the display name of the paired playlist.
	PlaylistName string
	// TotalTracks counts the resolvable playlist items.
	TotalTracks int64
	// AlreadyPaired counts items paired by an earlier run.
	AlreadyPaired int64
	// Paired counts items newly paired with a catalog track.
	Paired int64
	// Enqueued counts pairings that entered the download queue. A pairing
	// whose catalog track is already queued pairs without enqueueing.
	Enqueued int64
	// Unmatched lists the search terms with no catalog hit.
	Unmatched []string
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

// recordAlreadyPaired tallies an item paired by an earlier run.
func (s *ServiceImpl) recordAlreadyPaired() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.AlreadyPaired++
}

// recordUnmatched tallies a search term with no catalog hit.
func (s *ServiceImpl) recordUnmatched(label string) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.Unmatched = append(s.stats.Unmatched, label)
}

// recordPaired tallies a new pairing and whether it entered the queue.
func (s *ServiceImpl) recordPaired(enqueued bool) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.Paired++

	if enqueued {
		s.stats.Enqueued++
	}
}

// PrintPairSummary prints a formatted summary of the pairing run.
func (s *ServiceImpl) PrintPairSummary(ctx context.Context) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	stats := s.stats

	// If nothing was fetched, don't print a summary.
	if stats.TotalTracks == 0 && stats.PlaylistName == "" {
		return
	}

	if stats.EndTime.IsZero() {
		stats.EndTime = time.Now()
	}

	// Check if the context was canceled (CTRL+C or timeout).
	wasInterrupted := ctx.Err() != nil

	s.printSummaryHeader(ctx, wasInterrupted)
	s.printPairCounters(ctx, stats)
	s.printSummaryFooter(ctx, stats)
	s.printUnmatchedDetails(ctx, stats)
}

// printSummaryHeader prints the summary header.
func (s *ServiceImpl) printSummaryHeader(ctx context.Context, wasInterrupted bool) {
	logger.Info(ctx, "")
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")

	if wasInterrupted {
		logger.Info(ctx, "            PLAYLIST PAIRING SUMMARY (Interrupted)")
	} else {
		logger.Info(ctx, "                  PLAYLIST PAIRING SUMMARY")
	}

	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
}

// printPairCounters prints the per-outcome counters.
func (s *ServiceImpl) printPairCounters(ctx context.Context, stats *PairStatistics) {
	logger.Infof(ctx, "Playlist:           %s", stats.PlaylistName)
	logger.Infof(ctx, "Tracks inspected:   %d", stats.TotalTracks)

	if stats.Paired > 0 {
		logger.Infof(ctx, "  Paired:           %d", stats.Paired)
	}

	if stats.Enqueued > 0 {
		logger.Infof(ctx, "  Enqueued:         %d", stats.Enqueued)
	}

	if stats.AlreadyPaired > 0 {
		logger.Infof(ctx, "  Already Paired:   %d", stats.AlreadyPaired)
	}

	if len(stats.Unmatched) > 0 {
		logger.Infof(ctx, "  Unmatched:        %d", len(stats.Unmatched))
	}
}

// printSummaryFooter prints the closing border and the run duration.
func (s *ServiceImpl) printSummaryFooter(ctx context.Context, stats *PairStatistics) {
	duration := stats.EndTime.Sub(stats.StartTime)

	logger.Info(ctx, "")
	logger.Infof(ctx, "Duration:           %s", formatDuration(duration))
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
}

// printUnmatchedDetails lists every search term without a catalog hit, so
// the user can queue them manually.
func (s *ServiceImpl) printUnmatchedDetails(ctx context.Context, stats *PairStatistics) {
	if len(stats.Unmatched) == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Infof(ctx, "No catalog match (%d):", len(stats.Unmatched))

	for _, label := range stats.Unmatched {
		logger.Infof(ctx, "  %s", label)
	}
}
