// Package store persists the tool's whole state as a single JSON snapshot:
// the prioritized download queue, the granted-URL set, known track metadata,
// tracked genres, Spotify pairings, pending listing URLs and the cloud
// migration bitmaps. One mutex serializes every read and write, and every
// mutation rewrites the snapshot atomically before it reports success.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/matiasbn/dj-wizard/internal/constants"
)

// DefaultSnapshotFilename is the snapshot file name inside the download directory.
const DefaultSnapshotFilename = "soundeo_log.json"

// Static error definitions for better error handling.
var (
	// ErrCorruptSnapshot indicates that the snapshot file exists but cannot be parsed.
	ErrCorruptSnapshot = errors.New("state snapshot is corrupt")
	// ErrUnknownTrack indicates that a track id has no record in the track store.
	ErrUnknownTrack = errors.New("unknown track id")
	// ErrUnknownGenre indicates that a genre id is not tracked.
	ErrUnknownGenre = errors.New("unknown genre id")
	// ErrUnknownPlaylist indicates that a playlist id has not been registered.
	ErrUnknownPlaylist = errors.New("unknown playlist id")
)

// Store owns the state snapshot. All methods are safe for concurrent use:
// a single mutex guards the document, so callers must never perform network
// I/O while holding a Store call open.
type Store struct {
	mu   sync.Mutex
	path string
	doc  *snapshotDocument

	queued         map[string]*QueuedEntry
	available      map[string]struct{}
	migratedTracks map[string]struct{}
	migratedQueues map[string]struct{}
}

// Open loads the snapshot at path, creating an empty in-memory state when the
// file does not exist yet. A present but unparsable file is a hard error so
// that a damaged snapshot is never silently overwritten.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		doc:  newSnapshotDocument(),
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read state snapshot: %w", err)
		}
	} else if len(content) > 0 {
		if err = json.Unmarshal(content, s.doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrCorruptSnapshot, path, err)
		}
	}

	normalizeDocument(s.doc)
	s.rebuildIndexes()

	return s, nil
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// normalizeDocument allocates any section a hand-edited or older snapshot left nil.
func normalizeDocument(doc *snapshotDocument) {
	if doc.QueuedTracks == nil {
		doc.QueuedTracks = make([]*QueuedEntry, 0)
	}

	if doc.AvailableTracks == nil {
		doc.AvailableTracks = make([]string, 0)
	}

	if doc.Soundeo.TracksInfo == nil {
		doc.Soundeo.TracksInfo = make(map[string]*TrackRecord)
	}

	if doc.Spotify.Playlists == nil {
		doc.Spotify.Playlists = make(map[string]*Playlist)
	}

	if doc.GenreTracker.Genres == nil {
		doc.GenreTracker.Genres = make(map[string]*TrackedGenre)
	}

	if doc.URLList == nil {
		doc.URLList = make([]string, 0)
	}
}

// rebuildIndexes recomputes the lookup maps from the loaded document.
func (s *Store) rebuildIndexes() {
	s.queued = make(map[string]*QueuedEntry, len(s.doc.QueuedTracks))
	for _, entry := range s.doc.QueuedTracks {
		s.queued[entry.TrackID] = entry
	}

	s.available = make(map[string]struct{}, len(s.doc.AvailableTracks))
	for _, trackID := range s.doc.AvailableTracks {
		s.available[trackID] = struct{}{}
	}

	s.migratedTracks = make(map[string]struct{}, len(s.doc.FirebaseMigratedTracks))
	for _, trackID := range s.doc.FirebaseMigratedTracks {
		s.migratedTracks[trackID] = struct{}{}
	}

	s.migratedQueues = make(map[string]struct{}, len(s.doc.FirebaseMigratedQueues))
	for _, trackID := range s.doc.FirebaseMigratedQueues {
		s.migratedQueues[trackID] = struct{}{}
	}
}

// saveLocked writes the snapshot to a temporary file and renames it into
// place, so a crash mid-write never truncates the previous snapshot.
// The caller must hold s.mu.
func (s *Store) saveLocked() error {
	s.doc.LastUpdate = time.Now().Unix()
	s.doc.FirebaseMigratedTracks = sortedKeys(s.migratedTracks)
	s.doc.FirebaseMigratedQueues = sortedKeys(s.migratedQueues)

	content, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state snapshot: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(s.path), constants.DefaultFolderPermissions); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	temporaryPath := s.path + ".tmp"
	if err = os.WriteFile(temporaryPath, content, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write state snapshot: %w", err)
	}

	if err = os.Rename(temporaryPath, s.path); err != nil {
		return fmt.Errorf("failed to replace state snapshot: %w", err)
	}

	return nil
}

// SnapshotBytes returns the current snapshot serialized as indented JSON.
func (s *Store) SnapshotBytes() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.FirebaseMigratedTracks = sortedKeys(s.migratedTracks)
	s.doc.FirebaseMigratedQueues = sortedKeys(s.migratedQueues)

	content, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state snapshot: %w", err)
	}

	return content, nil
}

// Stats summarizes the snapshot for the info command.
type Stats struct {
	// Tracks is the number of known track records.
	Tracks int
	// Queued is the number of pending queue entries.
	Queued int
	// Available is the number of granted, not yet transferred tracks.
	Available int
	// Downloaded is the number of track records flagged as downloaded.
	Downloaded int
	// Genres is the number of tracked genres.
	Genres int
	// Playlists is the number of registered Spotify playlists.
	Playlists int
	// PendingURLs is the number of listing URLs awaiting ingestion.
	PendingURLs int
	// MirroredTracks is the number of track ids in the cloud migration bitmap.
	MirroredTracks int
	// MirroredQueues is the number of queue ids in the cloud migration bitmap.
	MirroredQueues int
	// LastUpdate is the Unix-second timestamp of the last persisted mutation.
	LastUpdate int64
}

// Summary returns counters describing the current snapshot.
func (s *Store) Summary() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	downloaded := 0
	for _, record := range s.doc.Soundeo.TracksInfo {
		if record.AlreadyDownloaded {
			downloaded++
		}
	}

	return Stats{
		Tracks:         len(s.doc.Soundeo.TracksInfo),
		Queued:         len(s.doc.QueuedTracks),
		Available:      len(s.doc.AvailableTracks),
		Downloaded:     downloaded,
		Genres:         len(s.doc.GenreTracker.Genres),
		Playlists:      len(s.doc.Spotify.Playlists),
		PendingURLs:    len(s.doc.URLList),
		MirroredTracks: len(s.migratedTracks),
		MirroredQueues: len(s.migratedQueues),
		LastUpdate:     s.doc.LastUpdate,
	}
}

// sortedKeys returns the keys of set in ascending order.
func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
