package store

import "strings"

// Priority orders queue draining: High entries drain before Normal, Normal before Low.
type Priority string

// Queue priority tiers.
const (
	PriorityHigh   Priority = "High"
	PriorityNormal Priority = "Normal"
	PriorityLow    Priority = "Low"
)

// rank returns the drain position of the priority tier. Unknown values drain last.
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityNormal:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// ParsePriority parses a case-insensitive priority name.
func ParsePriority(raw string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high":
		return PriorityHigh, true
	case "normal":
		return PriorityNormal, true
	case "low":
		return PriorityLow, true
	default:
		return "", false
	}
}

// TrackRecord is the locally known metadata of a catalog track.
// A record exists for every track the tool has ever inspected,
// regardless of whether it was downloaded.
type TrackRecord struct {
	// ID is the numeric catalog track id rendered as a string.
	ID string `json:"id"`
	// Title is the display title, usually "Artist - Name (Mix)".
	Title string `json:"title"`
	// TrackURL is the canonical catalog page of the track.
	TrackURL string `json:"track_url"`
	// Cover is the cover art URL.
	Cover string `json:"cover,omitempty"`
	// Release is the release name the track belongs to.
	Release string `json:"release,omitempty"`
	// Label is the publishing label.
	Label string `json:"label,omitempty"`
	// Genre is the catalog genre name.
	Genre string `json:"genre,omitempty"`
	// Date is the release date in ISO "YYYY-MM-DD" form.
	Date string `json:"date,omitempty"`
	// BPM is the tempo reported by the catalog.
	BPM uint32 `json:"bpm,omitempty"`
	// Key is the musical key reported by the catalog.
	Key string `json:"key,omitempty"`
	// Size is the human-readable file size reported by the catalog.
	Size string `json:"size_bytes,omitempty"`
	// Downloadable reports whether the catalog offers the track for download.
	Downloadable bool `json:"downloadable"`
	// AlreadyDownloaded reports whether this tool has downloaded the track.
	AlreadyDownloaded bool `json:"already_downloaded"`
	// Mirrored reports whether the record has been written to the cloud mirror.
	Mirrored bool `json:"mirrored"`
}

// QueuedEntry is one pending download in the prioritized queue.
type QueuedEntry struct {
	// TrackID is the catalog track id.
	TrackID string `json:"track_id"`
	// Priority is the drain tier of the entry.
	Priority Priority `json:"priority"`
	// OrderKey orders entries within a tier; lower keys drain first.
	OrderKey float64 `json:"order_key"`
	// AddedAt is the enqueue time in Unix seconds.
	AddedAt int64 `json:"added_at"`
	// Mirrored reports whether the entry has been written to the cloud mirror.
	Mirrored bool `json:"mirrored"`
}

// TrackedGenre is a catalog genre the scheduler periodically scans for new tracks.
type TrackedGenre struct {
	// GenreID is the numeric catalog genre id.
	GenreID uint32 `json:"genre_id"`
	// GenreName is the display name of the genre.
	GenreName string `json:"genre_name"`
	// LastCheckedDate is the newest release date already inspected, ISO "YYYY-MM-DD".
	// Empty means the genre has never been scanned.
	LastCheckedDate string `json:"last_checked_date"`
	// CreatedAt is the registration time in Unix milliseconds.
	CreatedAt int64 `json:"created_at"`
	// FavoriteArtists optionally narrows future scans to these artists.
	FavoriteArtists []string `json:"favorite_artists,omitempty"`
}

// Playlist is a Spotify playlist whose tracks are being paired with catalog tracks.
type Playlist struct {
	// ID is the Spotify playlist id.
	ID string `json:"id"`
	// Name is the playlist display name.
	Name string `json:"name"`
	// URL is the public playlist URL.
	URL string `json:"url"`
	// Tracks maps Spotify track ids to the catalog track ids they were paired with.
	Tracks map[string]string `json:"tracks"`
}

// soundeoSection groups the catalog track records inside the snapshot document.
type soundeoSection struct {
	TracksInfo map[string]*TrackRecord `json:"tracks_info"`
}

// spotifySection groups the paired playlists inside the snapshot document.
type spotifySection struct {
	Playlists map[string]*Playlist `json:"playlists"`
}

// genreSection groups the tracked genres inside the snapshot document,
// keyed by the decimal genre id.
type genreSection struct {
	Genres map[string]*TrackedGenre `json:"genres"`
}

// snapshotDocument is the on-disk JSON layout of the whole state snapshot.
type snapshotDocument struct {
	LastUpdate             int64          `json:"last_update"`
	QueuedTracks           []*QueuedEntry `json:"queued_tracks"`
	AvailableTracks        []string       `json:"available_tracks"`
	Soundeo                soundeoSection `json:"soundeo"`
	Spotify                spotifySection `json:"spotify"`
	GenreTracker           genreSection   `json:"genre_tracker"`
	URLList                []string       `json:"url_list"`
	FirebaseMigratedTracks []string       `json:"firebase_migrated_tracks"`
	FirebaseMigratedQueues []string       `json:"firebase_migrated_queues"`
}

// newSnapshotDocument returns an empty document with all sections allocated.
func newSnapshotDocument() *snapshotDocument {
	return &snapshotDocument{
		QueuedTracks:           make([]*QueuedEntry, 0),
		AvailableTracks:        make([]string, 0),
		Soundeo:                soundeoSection{TracksInfo: make(map[string]*TrackRecord)},
		Spotify:                spotifySection{Playlists: make(map[string]*Playlist)},
		GenreTracker:           genreSection{Genres: make(map[string]*TrackedGenre)},
		URLList:                make([]string, 0),
		FirebaseMigratedTracks: make([]string, 0),
		FirebaseMigratedQueues: make([]string, 0),
	}
}
