package soundeo

import (
	"os"
	"time"
)

const (
	// defaultFolderPermissions sets the default permissions for folders: (rwxr-xr-x).
	defaultFolderPermissions os.FileMode = 0o755

	// partFileExtension marks files whose bytes are still streaming in.
	partFileExtension = ".part"

	// fallbackAudioExtension is appended when the attachment carries no filename.
	fallbackAudioExtension = ".mp3"

	// defaultMinRetryPause and defaultMaxRetryPause bound the jittered pause
	// between transient-failure retries when the config leaves them unset.
	defaultMinRetryPause = 1 * time.Second
	defaultMaxRetryPause = 5 * time.Second
)

// Disposition is the final outcome of one queue entry within a session.
type Disposition uint8

const (
	// DispositionDownloaded - a download URL was granted and the entry moved to the available set.
	DispositionDownloaded Disposition = iota
	// DispositionNotDownloadable - the catalog refuses the track permanently.
	DispositionNotDownloadable
	// DispositionStemTrack - the track is a stem part, never downloadable as a whole.
	DispositionStemTrack
	// DispositionFailed - a transient failure; the entry stays queued for the next session.
	DispositionFailed
	// DispositionAlreadyDownloaded - the track was fetched in an earlier session.
	DispositionAlreadyDownloaded
	// DispositionAlreadyAvailable - the track already holds a granted URL.
	DispositionAlreadyAvailable
)

// String returns a human-readable representation of the Disposition.
func (d Disposition) String() string {
	switch d {
	case DispositionDownloaded:
		return "downloaded"
	case DispositionNotDownloadable:
		return "not downloadable"
	case DispositionStemTrack:
		return "stem track"
	case DispositionFailed:
		return "failed"
	case DispositionAlreadyDownloaded:
		return "already downloaded"
	case DispositionAlreadyAvailable:
		return "already available"
	default:
		return "unknown"
	}
}

// DownloadQueueOptions control which queue entries a download session covers.
type DownloadQueueOptions struct {
	// GenreFilter drains only entries whose track record carries this genre.
	GenreFilter string
	// ResumeOnly skips URL acquisition and transfers the available set only.
	ResumeOnly bool
	// Redownload fetches tracks even when their record says already downloaded.
	Redownload bool
}
