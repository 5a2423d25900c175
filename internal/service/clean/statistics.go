package clean

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/matiasbn/dj-wizard/internal/logger"
)

// CleanStatistics aggregates the outcome of one duplicate scan.
type CleanStatistics struct {
	// StartTime is when the scan started.
	StartTime time.Time
	// EndTime is when the scan finished.
	EndTime time.Time
	// DryRun reports whether deletion was skipped.
	DryRun bool
	// ScannedFiles counts the regular files inspected.
	ScannedFiles int64
	// DuplicateGroups counts the identical-content groups with more than
	// one copy.
	DuplicateGroups int64
	// RemovedFiles counts the deleted copies. In dry-run mode it counts
	// the copies that would have been deleted.
	RemovedFiles int64
	// FreedBytes totals the size of the removed copies.
	FreedBytes int64
	// RemovedPaths lists the removed copies for the summary details.
	RemovedPaths []string
	// Errors collects non-fatal failures encountered during the scan.
	Errors []error
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

// recordScanned tallies one inspected file.
func (s *ServiceImpl) recordScanned() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.ScannedFiles++
}

// recordDuplicateGroup tallies one identical-content group.
func (s *ServiceImpl) recordDuplicateGroup() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.DuplicateGroups++
}

// recordRemoved tallies one removed copy and the bytes it frees.
func (s *ServiceImpl) recordRemoved(path string, size int64) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.RemovedFiles++
	s.stats.FreedBytes += size
	s.stats.RemovedPaths = append(s.stats.RemovedPaths, path)
}

// recordError collects a non-fatal scan failure.
func (s *ServiceImpl) recordError(err error) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.Errors = append(s.stats.Errors, err)
}

// PrintCleanSummary prints a formatted summary of the duplicate scan.
func (s *ServiceImpl) PrintCleanSummary(ctx context.Context) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	stats := s.stats

	// If no scan ran, don't print a summary.
	if stats.StartTime.IsZero() {
		return
	}

	if stats.EndTime.IsZero() {
		stats.EndTime = time.Now()
	}

	// Check if the context was canceled (CTRL+C or timeout).
	wasInterrupted := ctx.Err() != nil

	s.printSummaryHeader(ctx, wasInterrupted)
	s.printCleanCounters(ctx, stats)
	s.printSummaryFooter(ctx, stats)
	s.printRemovedDetails(ctx, stats)
	s.printErrorDetails(ctx, stats)
}

// printSummaryHeader prints the summary header.
func (s *ServiceImpl) printSummaryHeader(ctx context.Context, wasInterrupted bool) {
	logger.Info(ctx, "")
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")

	if wasInterrupted {
		logger.Info(ctx, "           DUPLICATE CLEANUP SUMMARY (Interrupted)")
	} else {
		logger.Info(ctx, "                 DUPLICATE CLEANUP SUMMARY")
	}

	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
}

// printCleanCounters prints the per-outcome counters.
func (s *ServiceImpl) printCleanCounters(ctx context.Context, stats *CleanStatistics) {
	logger.Infof(ctx, "Files scanned:      %d", stats.ScannedFiles)
	logger.Infof(ctx, "Duplicate groups:   %d", stats.DuplicateGroups)

	if stats.DryRun {
		logger.Infof(ctx, "  Would remove:     %d", stats.RemovedFiles)
		logger.Infof(ctx, "  Would free:       %s", humanize.Bytes(uint64(stats.FreedBytes)))
	} else {
		logger.Infof(ctx, "  Removed:          %d", stats.RemovedFiles)
		logger.Infof(ctx, "  Freed:            %s", humanize.Bytes(uint64(stats.FreedBytes)))
	}

	if len(stats.Errors) > 0 {
		logger.Infof(ctx, "  Errors:           %d", len(stats.Errors))
	}
}

// printSummaryFooter prints the closing border and the scan duration.
func (s *ServiceImpl) printSummaryFooter(ctx context.Context, stats *CleanStatistics) {
	duration := stats.EndTime.Sub(stats.StartTime)

	logger.Info(ctx, "")
	logger.Infof(ctx, "Duration:           %s", formatDuration(duration))
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
}

// printRemovedDetails lists the removed copies. In dry-run mode this is the
// only place the user sees what a real run would delete.
func (s *ServiceImpl) printRemovedDetails(ctx context.Context, stats *CleanStatistics) {
	if !stats.DryRun || len(stats.RemovedPaths) == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Infof(ctx, "Would remove (%d):", len(stats.RemovedPaths))

	for _, path := range stats.RemovedPaths {
		logger.Infof(ctx, "  %s", path)
	}
}

// printErrorDetails lists the non-fatal failures encountered by the scan.
func (s *ServiceImpl) printErrorDetails(ctx context.Context, stats *CleanStatistics) {
	if len(stats.Errors) == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Infof(ctx, "Errors (%d):", len(stats.Errors))

	for _, err := range stats.Errors {
		logger.Infof(ctx, "  %v", err)
	}
}
