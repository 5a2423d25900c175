package soundeo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/matiasbn/dj-wizard/internal/logger"
)

// DownloadStatistics aggregates the outcome of one queue-draining session.
type DownloadStatistics struct {
	// StartTime is when the session started.
	StartTime time.Time
	// EndTime is when the session finished.
	EndTime time.Time
	// TotalProcessed counts every queue entry a worker picked up.
	TotalProcessed int64
	// URLsAcquired counts entries promoted to the available set.
	URLsAcquired int64
	// NotDownloadable counts entries the catalog refuses permanently.
	NotDownloadable int64
	// StemTracks counts entries dropped because the track is a stem part.
	StemTracks int64
	// Failed counts entries left queued after a non-permanent failure.
	Failed int64
	// AlreadyDownloaded counts entries skipped because the track was fetched before.
	AlreadyDownloaded int64
	// AlreadyAvailable counts entries that already held a granted URL.
	AlreadyAvailable int64
	// FilesTransferred counts completed byte transfers.
	FilesTransferred int64
	// TransfersFailed counts byte transfers that broke off mid-stream.
	TransfersFailed int64
	// TotalBytesDownloaded is the volume written to disk.
	TotalBytesDownloaded int64
	// BudgetExhausted is set when the session stopped on a spent allowance.
	BudgetExhausted bool
	// Errors collects every recorded failure for the summary.
	Errors []TrackError
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

// recordDisposition atomically tallies the outcome of one queue entry.
func (s *ServiceImpl) recordDisposition(disposition Disposition) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.TotalProcessed++

	switch disposition {
	case DispositionDownloaded:
		s.stats.URLsAcquired++
	case DispositionNotDownloadable:
		s.stats.NotDownloadable++
	case DispositionStemTrack:
		s.stats.StemTracks++
	case DispositionFailed:
		s.stats.Failed++
	case DispositionAlreadyDownloaded:
		s.stats.AlreadyDownloaded++
	case DispositionAlreadyAvailable:
		s.stats.AlreadyAvailable++
	}
}

// incrementFileTransferred atomically records one completed byte transfer.
func (s *ServiceImpl) incrementFileTransferred(bytes int64) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.FilesTransferred++
	s.stats.TotalBytesDownloaded += bytes
}

// incrementTransferFailed atomically records one broken byte transfer.
func (s *ServiceImpl) incrementTransferFailed() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.TransfersFailed++
}

// markBudgetExhausted flags that the session stopped on a spent allowance.
func (s *ServiceImpl) markBudgetExhausted() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.BudgetExhausted = true
}

// recordError records a classified failure for the end-of-session summary.
// Context cancellation errors are ignored as they are expected during graceful shutdown.
func (s *ServiceImpl) recordError(trackID string, kind FailureKind, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}

	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.Errors = append(s.stats.Errors, TrackError{
		Kind:    kind,
		TrackID: trackID,
		Err:     err,
	})
}

// PrintDownloadSummary prints a formatted summary of the session statistics.
func (s *ServiceImpl) PrintDownloadSummary(ctx context.Context) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	stats := s.stats

	// If nothing was processed, don't print a summary.
	if stats.TotalProcessed == 0 && stats.FilesTransferred == 0 && stats.TransfersFailed == 0 {
		return
	}

	// Check if the context was canceled (CTRL+C or timeout).
	wasInterrupted := ctx.Err() != nil

	s.printSummaryHeader(ctx, wasInterrupted)
	s.printQueueStatistics(ctx, stats)
	s.printTransferStatistics(ctx, stats)
	s.printBudgetStatistics(ctx, stats)
	s.printSummaryFooter(ctx)
	s.printErrorDetails(ctx, stats)
	s.printFinalMessage(ctx, wasInterrupted, stats)
}

// printSummaryHeader prints the summary header.
func (s *ServiceImpl) printSummaryHeader(ctx context.Context, wasInterrupted bool) {
	logger.Info(ctx, "")
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")

	if wasInterrupted {
		logger.Info(ctx, "             QUEUE SESSION SUMMARY (Interrupted)")
	} else {
		logger.Info(ctx, "                   QUEUE SESSION SUMMARY")
	}

	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
}

// printQueueStatistics prints the per-disposition counters of the acquisition phase.
func (s *ServiceImpl) printQueueStatistics(ctx context.Context, stats *DownloadStatistics) {
	if stats.TotalProcessed == 0 {
		return
	}

	logger.Infof(ctx, "Queue entries:    %d processed", stats.TotalProcessed)

	if stats.URLsAcquired > 0 {
		logger.Infof(ctx, "  URLs Acquired:   %d", stats.URLsAcquired)
	}

	if stats.AlreadyDownloaded > 0 {
		logger.Infof(ctx, "  Already Have:    %d", stats.AlreadyDownloaded)
	}

	if stats.AlreadyAvailable > 0 {
		logger.Infof(ctx, "  Already Granted: %d", stats.AlreadyAvailable)
	}

	if stats.NotDownloadable > 0 {
		logger.Infof(ctx, "  Restricted:      %d", stats.NotDownloadable)
	}

	if stats.StemTracks > 0 {
		logger.Infof(ctx, "  Stem Tracks:     %d", stats.StemTracks)
	}

	if stats.Failed > 0 {
		logger.Infof(ctx, "  Failed:          %d", stats.Failed)
	}
}

// printTransferStatistics prints byte-transfer statistics.
func (s *ServiceImpl) printTransferStatistics(ctx context.Context, stats *DownloadStatistics) {
	if stats.FilesTransferred == 0 && stats.TransfersFailed == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Infof(ctx, "Files written:    %d", stats.FilesTransferred)

	if stats.TransfersFailed > 0 {
		logger.Infof(ctx, "  Broken Streams:  %d (kept for next session)", stats.TransfersFailed)
	}

	if stats.TotalBytesDownloaded > 0 {
		logger.Infof(ctx, "  Data Downloaded: %s", humanize.Bytes(uint64(stats.TotalBytesDownloaded)))

		// Calculate the average speed over the whole session.
		duration := stats.EndTime.Sub(stats.StartTime)
		if duration > 0 {
			bytesPerSecond := float64(stats.TotalBytesDownloaded) / duration.Seconds()
			logger.Infof(ctx, "  Average Speed:   %s/s", humanize.Bytes(uint64(bytesPerSecond)))
		}
	}
}

// printBudgetStatistics prints the remaining download allowance.
func (s *ServiceImpl) printBudgetStatistics(ctx context.Context, stats *DownloadStatistics) {
	main, bonus := s.budget.Current()

	logger.Info(ctx, "")
	logger.Infof(ctx, "Budget remaining: %d main + %d bonus", main, bonus)

	if stats.BudgetExhausted {
		if eta := s.budget.ResetETA(); eta != "" {
			logger.Infof(ctx, "  Allowance spent; %s", eta)
		} else {
			logger.Info(ctx, "  Allowance spent; remaining entries stay queued")
		}
	}
}

// printSummaryFooter prints the closing border and the session duration.
func (s *ServiceImpl) printSummaryFooter(ctx context.Context) {
	duration := s.stats.EndTime.Sub(s.stats.StartTime)

	logger.Info(ctx, "")
	logger.Infof(ctx, "Duration:         %s", formatDuration(duration))
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
}

// printErrorDetails lists every recorded failure with its classification.
func (s *ServiceImpl) printErrorDetails(ctx context.Context, stats *DownloadStatistics) {
	if len(stats.Errors) == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Infof(ctx, "Errors (%d):", len(stats.Errors))

	for i := range stats.Errors {
		trackError := &stats.Errors[i]
		logger.Infof(ctx, "  [%s] track %s: %v", trackError.Kind, trackError.TrackID, trackError.Err)
	}
}

// printFinalMessage prints a closing line matching how the session ended.
func (s *ServiceImpl) printFinalMessage(ctx context.Context, wasInterrupted bool, stats *DownloadStatistics) {
	logger.Info(ctx, "")

	switch {
	case wasInterrupted:
		logger.Info(ctx, "Session interrupted - progress is saved, rerun to continue")
	case stats.BudgetExhausted:
		logger.Info(ctx, "Download allowance exhausted - rerun once it resets")
	case len(stats.Errors) > 0:
		logger.Info(ctx, "Session completed with errors - see details above")
	case stats.FilesTransferred > 0 || stats.URLsAcquired > 0:
		logger.Info(ctx, "Session completed successfully")
	default:
		logger.Info(ctx, "Nothing to do")
	}
}
