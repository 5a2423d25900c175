package store

// The migration bitmaps remember which document ids already exist in the
// cloud mirror. Seeding them from a remote listing once per migration run
// turns every per-item "is it there yet" decision into a map lookup instead
// of a network round trip.

// SeedMigratedTracks merges remote track document ids into the track bitmap
// and returns how many ids were new.
func (s *Store) SeedMigratedTracks(trackIDs []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0

	for _, trackID := range trackIDs {
		if _, isKnown := s.migratedTracks[trackID]; !isKnown {
			s.migratedTracks[trackID] = struct{}{}
			added++
		}
	}

	if added == 0 {
		return 0, nil
	}

	if err := s.saveLocked(); err != nil {
		return 0, err
	}

	return added, nil
}

// IsTrackMigrated reports whether the track id is in the migration bitmap.
func (s *Store) IsTrackMigrated(trackID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, isMigrated := s.migratedTracks[trackID]

	return isMigrated
}

// SeedMigratedQueues merges remote queue document ids into the queue bitmap
// and returns how many ids were new.
func (s *Store) SeedMigratedQueues(trackIDs []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0

	for _, trackID := range trackIDs {
		if _, isKnown := s.migratedQueues[trackID]; !isKnown {
			s.migratedQueues[trackID] = struct{}{}
			added++
		}
	}

	if added == 0 {
		return 0, nil
	}

	if err := s.saveLocked(); err != nil {
		return 0, err
	}

	return added, nil
}

// IsQueueMigrated reports whether the queue entry id is in the migration bitmap.
func (s *Store) IsQueueMigrated(trackID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, isMigrated := s.migratedQueues[trackID]

	return isMigrated
}
