package soundeo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	clientsoundeo "github.com/matiasbn/dj-wizard/internal/client/soundeo"
	"github.com/matiasbn/dj-wizard/internal/constants"
	"github.com/matiasbn/dj-wizard/internal/display"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/utils"
)

const (
	// File options for overwriting an existing file. Leftover .part files
	// indicate incomplete downloads and are always replaced.
	overwriteFileOptions = os.O_CREATE | os.O_TRUNC | os.O_WRONLY

	// fullPercent is the denominator of the progress percentage.
	fullPercent = 100
)

// transferRequest carries the shared session state one transfer worker needs.
type transferRequest struct {
	// trackID is the track whose bytes are being fetched.
	trackID string
	// slot is the worker's display line index.
	slot int
	// progress renders the live session state.
	progress *display.Display
	// sessionStopped stops every worker once set.
	sessionStopped *atomic.Bool
}

// transferAvailableTracks runs the second phase of a session: it streams the
// bytes of every track in the available set to disk. Tracks that fail stay
// in the set for the next session; they are never re-enqueued.
func (s *ServiceImpl) transferAvailableTracks(
	ctx context.Context,
	progress *display.Display,
	workerCount int,
) error {
	trackIDs := s.store.ListAvailable()
	if len(trackIDs) == 0 {
		logger.Info(ctx, "No tracks are awaiting transfer")

		return nil
	}

	logger.Infof(ctx, "Transferring %d tracks to %s", len(trackIDs), s.cfg.DownloadPath)

	var sessionStopped atomic.Bool

	// Worker slots double as the concurrency limiter and the display line index.
	slots := make(chan int, workerCount)
	for slot := 0; slot < workerCount; slot++ {
		slots <- slot
	}

	var waitGroup sync.WaitGroup

	for _, trackID := range trackIDs {
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

		go func(currentTrackID string) {
			defer waitGroup.Done()

			slot := <-slots

			defer func() {
				slots <- slot
			}()

			if ctx.Err() != nil || sessionStopped.Load() {
				return
			}

			s.transferTrack(ctx, &transferRequest{
				trackID:        currentTrackID,
				slot:           slot,
				progress:       progress,
				sessionStopped: &sessionStopped,
			})

			s.updateTransferAggregate(progress, len(trackIDs))
		}(trackID)
	}

waitForCompletion:
	// Wait for all in-flight transfers to complete.
	waitGroup.Wait()

	return nil
}

// transferTrack streams one granted track to disk and settles its state.
func (s *ServiceImpl) transferTrack(ctx context.Context, req *transferRequest) {
	trackID := req.trackID
	title := s.store.TrackTitle(trackID)

	downloadURL, err := s.resolveDownloadURL(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}

		logger.Errorf(ctx, "Failed to resolve the download URL for '%s': %v", title, err)
		s.recordError(trackID, classifyFailure(err), err)
		s.incrementTransferFailed()

		if errors.Is(err, clientsoundeo.ErrSessionExpired) {
			req.sessionStopped.Store(true)
		}

		return
	}

	req.progress.SetWorker(req.slot, "[%d] %s: connecting", req.slot+1, title)

	written, err := s.streamToDisk(ctx, req, downloadURL, title)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Errorf(ctx, "Failed to download '%s': %v", title, err)
			s.recordError(trackID, classifyFailure(err), err)
			s.incrementTransferFailed()
		}

		return
	}

	// One persisted mutation flips the track from available to downloaded,
	// so a crash can never leave both states claiming it.
	err = s.store.CompleteDownload(trackID)
	if err != nil {
		logger.Errorf(ctx, "Failed to persist the download of '%s': %v", title, err)
		s.recordError(trackID, FailurePersistence, err)
		s.incrementTransferFailed()

		return
	}

	s.incrementFileTransferred(written)
	logger.Infof(ctx, "Downloaded '%s' (%s)", title, humanize.Bytes(uint64(written)))
}

// resolveDownloadURL returns the grant acquired in this session or re-derives
// one for entries inherited from an earlier session. The catalog does not
// re-charge an already granted track, so the local budget stays untouched.
func (s *ServiceImpl) resolveDownloadURL(ctx context.Context, req *transferRequest) (string, error) {
	if downloadURL, ok := s.sessionGrant(req.trackID); ok {
		return downloadURL, nil
	}

	var downloadURL string

	err := s.withSessionRetry(ctx, func() error {
		return s.withTransientRetry(ctx, "grant re-derivation", func() error {
			var deriveErr error
			downloadURL, deriveErr = s.client.GetDownloadURL(ctx, req.trackID)

			return deriveErr
		})
	})
	if err != nil {
		return "", err
	}

	return downloadURL, nil
}

// streamToDisk fetches the attachment behind downloadURL into a .part file
// and renames it into place once every byte arrived.
func (s *ServiceImpl) streamToDisk(
	ctx context.Context,
	req *transferRequest,
	downloadURL string,
	title string,
) (int64, error) {
	var result *clientsoundeo.DownloadResult

	err := s.withTransientRetry(ctx, "download stream open", func() error {
		var streamErr error
		result, streamErr = s.client.StreamDownload(ctx, downloadURL)

		return streamErr
	})
	if err != nil {
		return 0, err
	}

	defer result.Body.Close() //nolint:errcheck // Error on close is not critical here.

	filename := result.Filename
	if filename == "" {
		filename = req.trackID + fallbackAudioExtension
	}

	finalPath := filepath.Join(s.cfg.DownloadPath, utils.SanitizeFilename(filename))
	tempFilePath := finalPath + partFileExtension

	file, err := os.OpenFile(filepath.Clean(tempFilePath), overwriteFileOptions, constants.DefaultFilePermissions)
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}

	// Track whether the download succeeded.
	// If not, the .part file is cleaned up on function exit.
	var downloadSucceeded bool

	defer func() {
		closeErr := file.Close()

		if !downloadSucceeded {
			// Small delay to ensure the file handle is released (Windows needs this).
			time.Sleep(10 * time.Millisecond)

			if removeErr := os.Remove(tempFilePath); removeErr != nil && !os.IsNotExist(removeErr) {
				logger.Warnf(ctx, "Failed to clean up temporary file '%s': %v (close error: %v)",
					tempFilePath, removeErr, closeErr)
			}
		}
	}()

	counter := &countingWriter{
		onWrite: func(written int64) {
			s.updateTransferWorkerLine(req, title, written, result.TotalBytes)
		},
	}

	bytesWritten, err := io.Copy(io.MultiWriter(file, counter), result.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	// Verify that every advertised byte arrived.
	if result.TotalBytes > 0 && bytesWritten != result.TotalBytes {
		return 0, fmt.Errorf(
			"%w: wrote %d bytes, expected %d bytes",
			ErrIncompleteDownload,
			bytesWritten,
			result.TotalBytes,
		)
	}

	err = os.Rename(tempFilePath, finalPath)
	if err != nil {
		return 0, fmt.Errorf("failed to rename temporary file: %w", err)
	}

	// Mark the download as successful to prevent cleanup by the defer.
	downloadSucceeded = true

	return bytesWritten, nil
}

// updateTransferWorkerLine refreshes a worker's display line with stream progress.
func (s *ServiceImpl) updateTransferWorkerLine(req *transferRequest, title string, written, total int64) {
	if total > 0 {
		percent := written * fullPercent / total
		req.progress.SetWorker(req.slot, "[%d] %s: %d%% of %s",
			req.slot+1, title, percent, humanize.Bytes(uint64(total)))

		return
	}

	req.progress.SetWorker(req.slot, "[%d] %s: %s written",
		req.slot+1, title, humanize.Bytes(uint64(written)))
}

// updateTransferAggregate refreshes the aggregate display line with the
// current transfer counters.
func (s *ServiceImpl) updateTransferAggregate(progress *display.Display, total int) {
	s.statsMutex.Lock()
	transferred := s.stats.FilesTransferred
	failed := s.stats.TransfersFailed
	bytes := s.stats.TotalBytesDownloaded
	s.statsMutex.Unlock()

	progress.SetAggregate(
		"Transferring: %d/%d files written (%s), %d failed",
		transferred, total, humanize.Bytes(uint64(bytes)), failed,
	)
}

// countingWriter forwards written byte counts to a callback so stream
// progress can render without buffering.
type countingWriter struct {
	// written is the running byte count.
	written int64
	// onWrite receives the running count after every chunk.
	onWrite func(written int64)
}

// Write implements io.Writer.
func (w *countingWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))

	if w.onWrite != nil {
		w.onWrite(w.written)
	}

	return len(p), nil
}
