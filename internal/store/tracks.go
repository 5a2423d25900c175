package store

import (
	"fmt"
	"sort"
)

// UpsertTrack inserts or replaces a track record and persists the snapshot.
// The Mirrored flag of an existing record survives the update so a metadata
// refresh never causes a pointless re-upload to the cloud mirror.
func (s *Store) UpsertTrack(record *TrackRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *record

	if existing, isKnown := s.doc.Soundeo.TracksInfo[record.ID]; isKnown {
		clone.Mirrored = existing.Mirrored

		if existing.AlreadyDownloaded {
			clone.AlreadyDownloaded = true
		}
	}

	s.doc.Soundeo.TracksInfo[record.ID] = &clone

	return s.saveLocked()
}

// GetTrack returns a copy of the track record, if known.
func (s *Store) GetTrack(trackID string) (*TrackRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, isKnown := s.doc.Soundeo.TracksInfo[trackID]
	if !isKnown {
		return nil, false
	}

	clone := *record

	return &clone, true
}

// TrackTitle returns the stored display title, falling back to the id.
func (s *Store) TrackTitle(trackID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record, isKnown := s.doc.Soundeo.TracksInfo[trackID]; isKnown && record.Title != "" {
		return record.Title
	}

	return trackID
}

// MarkNotDownloadable flags a track as permanently restricted and persists the
// snapshot. Restricted tracks are never re-enqueued by the genre scheduler.
func (s *Store) MarkNotDownloadable(trackID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, isKnown := s.doc.Soundeo.TracksInfo[trackID]
	if !isKnown {
		return fmt.Errorf("%w: %s", ErrUnknownTrack, trackID)
	}

	record.Downloadable = false

	return s.saveLocked()
}

// CompleteDownload removes the track from the granted set and flags its record
// as downloaded in one persisted mutation, so a crash between the two flips
// can never leave the snapshot claiming a file it does not have.
func (s *Store) CompleteDownload(trackID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, isAvailable := s.available[trackID]; isAvailable {
		delete(s.available, trackID)

		for i, grantedID := range s.doc.AvailableTracks {
			if grantedID == trackID {
				s.doc.AvailableTracks = append(s.doc.AvailableTracks[:i], s.doc.AvailableTracks[i+1:]...)

				break
			}
		}
	}

	record, isKnown := s.doc.Soundeo.TracksInfo[trackID]
	if !isKnown {
		return fmt.Errorf("%w: %s", ErrUnknownTrack, trackID)
	}

	record.AlreadyDownloaded = true

	return s.saveLocked()
}

// ResetDownloaded clears the downloaded flag so the track can be fetched again.
func (s *Store) ResetDownloaded(trackID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, isKnown := s.doc.Soundeo.TracksInfo[trackID]
	if !isKnown {
		return fmt.Errorf("%w: %s", ErrUnknownTrack, trackID)
	}

	record.AlreadyDownloaded = false

	return s.saveLocked()
}

// MarkTracksMirrored flags the given track records as written to the cloud
// mirror and records them in the migration bitmap, in one persisted mutation.
func (s *Store) MarkTracksMirrored(trackIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, trackID := range trackIDs {
		if record, isKnown := s.doc.Soundeo.TracksInfo[trackID]; isKnown {
			record.Mirrored = true
		}

		s.migratedTracks[trackID] = struct{}{}
	}

	return s.saveLocked()
}

// ListPendingMirrorTracks returns copies of the track records not yet mirrored,
// sorted by id for deterministic batching.
func (s *Store) ListPendingMirrorTracks() []TrackRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]TrackRecord, 0, len(s.doc.Soundeo.TracksInfo))

	for _, record := range s.doc.Soundeo.TracksInfo {
		if !record.Mirrored {
			pending = append(pending, *record)
		}
	}

	sortTrackRecords(pending)

	return pending
}

// ListTracks returns copies of all track records sorted by id.
func (s *Store) ListTracks() []TrackRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]TrackRecord, 0, len(s.doc.Soundeo.TracksInfo))
	for _, record := range s.doc.Soundeo.TracksInfo {
		records = append(records, *record)
	}

	sortTrackRecords(records)

	return records
}

// sortTrackRecords orders records by id ascending.
func sortTrackRecords(records []TrackRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
}
