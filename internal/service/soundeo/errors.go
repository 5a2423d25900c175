package soundeo

import (
	"context"
	"errors"
	"fmt"

	clientsoundeo "github.com/matiasbn/dj-wizard/internal/client/soundeo"
)

// Static error definitions for better error handling.
var (
	// ErrIncompleteDownload indicates that the downloaded file size doesn't match the expected size.
	ErrIncompleteDownload = errors.New("incomplete download")
)

// FailureKind classifies a failed queue operation by its root cause.
type FailureKind uint8

const (
	// FailureTransport - network or unexpected HTTP status; retried before surfacing.
	FailureTransport FailureKind = iota
	// FailureAuthExpired - the session cookie no longer authenticates.
	FailureAuthExpired
	// FailureRateExhausted - the download allowance hit zero mid-session.
	FailureRateExhausted
	// FailureNotDownloadable - the catalog refuses the track permanently.
	FailureNotDownloadable
	// FailureStemTrack - the track is a stem part.
	FailureStemTrack
	// FailureParse - a response arrived but its shape was not understood.
	FailureParse
	// FailurePersistence - the state snapshot could not be written.
	FailurePersistence
	// FailureConfig - the local configuration is unusable.
	FailureConfig
)

// String returns a human-readable representation of the FailureKind.
func (k FailureKind) String() string {
	switch k {
	case FailureTransport:
		return "transport"
	case FailureAuthExpired:
		return "auth expired"
	case FailureRateExhausted:
		return "rate exhausted"
	case FailureNotDownloadable:
		return "not downloadable"
	case FailureStemTrack:
		return "stem track"
	case FailureParse:
		return "parse"
	case FailurePersistence:
		return "persistence"
	case FailureConfig:
		return "config"
	default:
		return "unknown"
	}
}

// TrackError couples a failure classification with the affected track.
type TrackError struct {
	// Kind is the failure classification.
	Kind FailureKind
	// TrackID is the catalog identifier of the affected track.
	TrackID string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *TrackError) Error() string {
	return fmt.Sprintf("track %s: %s: %v", e.TrackID, e.Kind, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As chains.
func (e *TrackError) Unwrap() error {
	return e.Err
}

// classifyFailure maps client sentinels onto the failure taxonomy.
func classifyFailure(err error) FailureKind {
	switch {
	case errors.Is(err, clientsoundeo.ErrSessionExpired):
		return FailureAuthExpired
	case errors.Is(err, clientsoundeo.ErrRateExhausted):
		return FailureRateExhausted
	case errors.Is(err, clientsoundeo.ErrNotDownloadable),
		errors.Is(err, clientsoundeo.ErrTrackNotFound):
		return FailureNotDownloadable
	case errors.Is(err, clientsoundeo.ErrUnexpectedResponseFormat),
		errors.Is(err, clientsoundeo.ErrDownloadsCounterNotFound):
		return FailureParse
	default:
		return FailureTransport
	}
}

// isRetryableFailure reports whether a failure is worth another attempt in place.
// Context cancellation is never retried so CTRL+C stays responsive.
func isRetryableFailure(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return classifyFailure(err) == FailureTransport
}
