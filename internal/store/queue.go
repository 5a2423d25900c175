package store

import (
	"sort"
	"time"
)

// Enqueue appends a track to the download queue and persists the snapshot.
// It returns false without touching the document when the track is already
// queued or already sits in the granted set, so the queue and the granted set
// stay disjoint.
func (s *Store) Enqueue(trackID string, priority Priority) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, isQueued := s.queued[trackID]; isQueued {
		return false, nil
	}

	if _, isAvailable := s.available[trackID]; isAvailable {
		return false, nil
	}

	now := time.Now()

	entry := &QueuedEntry{
		TrackID:  trackID,
		Priority: priority,
		OrderKey: s.nextOrderKeyLocked(float64(now.UnixMilli())),
		AddedAt:  now.Unix(),
	}

	s.doc.QueuedTracks = append(s.doc.QueuedTracks, entry)
	s.queued[trackID] = entry

	if err := s.saveLocked(); err != nil {
		return false, err
	}

	return true, nil
}

// nextOrderKeyLocked nudges the candidate key above the current maximum so
// that two enqueues within the same millisecond still drain in call order.
// The caller must hold s.mu.
func (s *Store) nextOrderKeyLocked(candidate float64) float64 {
	maximum := 0.0
	for _, entry := range s.doc.QueuedTracks {
		if entry.OrderKey > maximum {
			maximum = entry.OrderKey
		}
	}

	if candidate <= maximum {
		return maximum + 1
	}

	return candidate
}

// IsQueued reports whether the track is pending in the queue.
func (s *Store) IsQueued(trackID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, isQueued := s.queued[trackID]

	return isQueued
}

// QueueLength returns the number of pending queue entries.
func (s *Store) QueueLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.doc.QueuedTracks)
}

// DequeueSorted returns a copy of the queue in drain order: priority tiers
// first (High, Normal, Low), ascending order key within a tier.
func (s *Store) DequeueSorted() []QueuedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]QueuedEntry, 0, len(s.doc.QueuedTracks))
	for _, entry := range s.doc.QueuedTracks {
		entries = append(entries, *entry)
	}

	sortQueueEntries(entries)

	return entries
}

// sortQueueEntries sorts entries into drain order, breaking exact ties by
// track id so the order is deterministic.
func sortQueueEntries(entries []QueuedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		left, right := entries[i], entries[j]

		if left.Priority.rank() != right.Priority.rank() {
			return left.Priority.rank() < right.Priority.rank()
		}

		if left.OrderKey != right.OrderKey {
			return left.OrderKey < right.OrderKey
		}

		return left.TrackID < right.TrackID
	})
}

// RemoveQueued deletes a queue entry and persists the snapshot.
// It returns false when the track was not queued.
func (s *Store) RemoveQueued(trackID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.removeQueuedLocked(trackID) {
		return false, nil
	}

	if err := s.saveLocked(); err != nil {
		return false, err
	}

	return true, nil
}

// removeQueuedLocked drops the entry from the queue slice and index without
// persisting. The caller must hold s.mu.
func (s *Store) removeQueuedLocked(trackID string) bool {
	if _, isQueued := s.queued[trackID]; !isQueued {
		return false
	}

	delete(s.queued, trackID)

	for i, entry := range s.doc.QueuedTracks {
		if entry.TrackID == trackID {
			s.doc.QueuedTracks = append(s.doc.QueuedTracks[:i], s.doc.QueuedTracks[i+1:]...)

			break
		}
	}

	return true
}

// UpdatePriority moves a queued track to another priority tier, keeping its
// order key. It returns false when the track is not queued.
func (s *Store) UpdatePriority(trackID string, priority Priority) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, isQueued := s.queued[trackID]
	if !isQueued {
		return false, nil
	}

	if entry.Priority == priority {
		return true, nil
	}

	entry.Priority = priority

	if err := s.saveLocked(); err != nil {
		return false, err
	}

	return true, nil
}

// PromoteToTop reorders the given queued tracks ahead of every other entry in
// their priority tiers while preserving their relative order. Unknown ids are
// ignored. It returns the number of entries actually moved.
func (s *Store) PromoteToTop(trackIDs []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	present := make([]*QueuedEntry, 0, len(trackIDs))
	for _, trackID := range trackIDs {
		if entry, isQueued := s.queued[trackID]; isQueued {
			present = append(present, entry)
		}
	}

	if len(present) == 0 {
		return 0, nil
	}

	floor := s.doc.QueuedTracks[0].OrderKey
	for _, entry := range s.doc.QueuedTracks {
		if entry.OrderKey < floor {
			floor = entry.OrderKey
		}
	}

	floor--

	// The first requested id gets the lowest key so it drains first.
	base := floor - float64(len(present)-1)
	for i, entry := range present {
		entry.OrderKey = base + float64(i)
	}

	if err := s.saveLocked(); err != nil {
		return 0, err
	}

	return len(present), nil
}

// CompactOrderKeys renumbers all order keys to dense ranks 1..n, preserving
// the global order. Years of millisecond timestamps plus promote-to-top
// floors drift the keys far apart; compaction keeps them readable and keeps
// promote-to-top arithmetic away from float precision trouble.
func (s *Store) CompactOrderKeys() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.doc.QueuedTracks) == 0 {
		return nil
	}

	ordered := make([]*QueuedEntry, len(s.doc.QueuedTracks))
	copy(ordered, s.doc.QueuedTracks)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].OrderKey != ordered[j].OrderKey {
			return ordered[i].OrderKey < ordered[j].OrderKey
		}

		return ordered[i].TrackID < ordered[j].TrackID
	})

	for i, entry := range ordered {
		entry.OrderKey = float64(i + 1)
	}

	return s.saveLocked()
}

// PromoteToAvailable atomically moves a track from the queue to the granted
// set. The queue removal and the grant land in one persisted mutation, so a
// crash can never lose the track from both sets.
func (s *Store) PromoteToAvailable(trackID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeQueuedLocked(trackID)

	if _, isAvailable := s.available[trackID]; !isAvailable {
		s.available[trackID] = struct{}{}
		s.doc.AvailableTracks = append(s.doc.AvailableTracks, trackID)
	}

	return s.saveLocked()
}

// IsAvailable reports whether the track sits in the granted set.
func (s *Store) IsAvailable(trackID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, isAvailable := s.available[trackID]

	return isAvailable
}

// ListAvailable returns the granted set in insertion order.
func (s *Store) ListAvailable() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	trackIDs := make([]string, len(s.doc.AvailableTracks))
	copy(trackIDs, s.doc.AvailableTracks)

	return trackIDs
}

// MarkQueueMirrored flags the given queue entries as written to the cloud
// mirror and records them in the migration bitmap, in one persisted mutation.
func (s *Store) MarkQueueMirrored(trackIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, trackID := range trackIDs {
		if entry, isQueued := s.queued[trackID]; isQueued {
			entry.Mirrored = true
		}

		s.migratedQueues[trackID] = struct{}{}
	}

	return s.saveLocked()
}

// ListPendingMirrorQueue returns copies of the queue entries not yet mirrored.
func (s *Store) ListPendingMirrorQueue() []QueuedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]QueuedEntry, 0, len(s.doc.QueuedTracks))

	for _, entry := range s.doc.QueuedTracks {
		if !entry.Mirrored {
			pending = append(pending, *entry)
		}
	}

	sortQueueEntries(pending)

	return pending
}
