package mirror

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matiasbn/dj-wizard/internal/logger"
)

// MigrationStatistics aggregates the outcome of one migration run across all
// selected subsets.
type MigrationStatistics struct {
	// StartTime is when the run started.
	StartTime time.Time
	// EndTime is when the run finished.
	EndTime time.Time
	// CandidateCount counts documents selected for upload.
	CandidateCount int64
	// SkippedCount counts records the mirror already held; they only get the
	// local flag.
	SkippedCount int64
	// MigratedCount counts documents confirmed written.
	MigratedCount int64
	// FailedCount counts documents whose batch did not land.
	FailedCount int64
	// SectionCount counts single-document sections written.
	SectionCount int64
	// Errors collects every batch failure for the summary.
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

// addCandidates atomically grows the selected-document counter.
func (s *ServiceImpl) addCandidates(count int) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.CandidateCount += int64(count)
}

// recordSkips atomically tallies records the mirror already held.
func (s *ServiceImpl) recordSkips(count int) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.SkippedCount += int64(count)
}

// recordBatchSuccess atomically tallies one landed batch.
func (s *ServiceImpl) recordBatchSuccess(count int) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.MigratedCount += int64(count)
}

// recordBatchFailure atomically tallies one lost batch.
// Context cancellation errors are ignored as they are expected during graceful shutdown.
func (s *ServiceImpl) recordBatchFailure(count int, err error) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.FailedCount += int64(count)

	if err != nil && !errors.Is(err, context.Canceled) {
		s.stats.Errors = append(s.stats.Errors, err)
	}
}

// recordSectionWritten atomically tallies one single-document section.
func (s *ServiceImpl) recordSectionWritten() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.SectionCount++
}

// PrintMigrationSummary prints a formatted summary of the migration run.
func (s *ServiceImpl) PrintMigrationSummary(ctx context.Context) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	stats := s.stats

	// If nothing was selected, don't print a summary.
	if stats.CandidateCount == 0 && stats.SkippedCount == 0 && stats.SectionCount == 0 {
		return
	}

	if stats.EndTime.IsZero() {
		stats.EndTime = time.Now()
	}

	// Check if the context was canceled (CTRL+C or timeout).
	wasInterrupted := ctx.Err() != nil

	s.printSummaryHeader(ctx, wasInterrupted)
	s.printMigrationCounters(ctx, stats)
	s.printSummaryFooter(ctx, stats)
	s.printErrorDetails(ctx, stats)
	s.printFinalMessage(ctx, wasInterrupted, stats)
}

// printSummaryHeader prints the summary header.
func (s *ServiceImpl) printSummaryHeader(ctx context.Context, wasInterrupted bool) {
	logger.Info(ctx, "")
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")

	if wasInterrupted {
		logger.Info(ctx, "            CLOUD MIGRATION SUMMARY (Interrupted)")
	} else {
		logger.Info(ctx, "                  CLOUD MIGRATION SUMMARY")
	}

	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
}

// printMigrationCounters prints the per-outcome counters.
func (s *ServiceImpl) printMigrationCounters(ctx context.Context, stats *MigrationStatistics) {
	logger.Infof(ctx, "Documents selected: %d", stats.CandidateCount)

	if stats.MigratedCount > 0 {
		logger.Infof(ctx, "  Mirrored:        %d", stats.MigratedCount)
	}

	if stats.SkippedCount > 0 {
		logger.Infof(ctx, "  Already Present: %d (flagged locally, no upload)", stats.SkippedCount)
	}

	if stats.FailedCount > 0 {
		logger.Infof(ctx, "  Failed:          %d", stats.FailedCount)
	}

	if stats.SectionCount > 0 {
		logger.Infof(ctx, "  Sections:        %d", stats.SectionCount)
	}
}

// printSummaryFooter prints the closing border and the run duration.
func (s *ServiceImpl) printSummaryFooter(ctx context.Context, stats *MigrationStatistics) {
	duration := stats.EndTime.Sub(stats.StartTime)

	logger.Info(ctx, "")
	logger.Infof(ctx, "Duration:           %s", formatDuration(duration))
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
}

// printErrorDetails lists every recorded batch failure.
func (s *ServiceImpl) printErrorDetails(ctx context.Context, stats *MigrationStatistics) {
	if len(stats.Errors) == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Infof(ctx, "Errors (%d):", len(stats.Errors))

	for _, batchErr := range stats.Errors {
		logger.Infof(ctx, "  %v", batchErr)
	}
}

// printFinalMessage prints a closing line matching how the run ended.
func (s *ServiceImpl) printFinalMessage(ctx context.Context, wasInterrupted bool, stats *MigrationStatistics) {
	logger.Info(ctx, "")

	switch {
	case wasInterrupted:
		logger.Info(ctx, "Migration interrupted - progress is saved, rerun to continue")
	case stats.FailedCount > 0:
		logger.Info(ctx, "Migration completed with failures - rerun to retry the rest")
	default:
		logger.Info(ctx, "Migration completed successfully")
	}
}
