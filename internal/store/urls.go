package store

// AddPendingURL records a listing or track URL awaiting ingestion.
// Duplicates are ignored. The list survives crashes so an interrupted ingest
// run picks up where it left off.
func (s *Store) AddPendingURL(rawURL string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.doc.URLList {
		if existing == rawURL {
			return false, nil
		}
	}

	s.doc.URLList = append(s.doc.URLList, rawURL)

	if err := s.saveLocked(); err != nil {
		return false, err
	}

	return true, nil
}

// ListPendingURLs returns the pending URLs in insertion order.
func (s *Store) ListPendingURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]string, len(s.doc.URLList))
	copy(pending, s.doc.URLList)

	return pending
}

// RemovePendingURL drops an ingested URL from the pending list.
func (s *Store) RemovePendingURL(rawURL string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.doc.URLList {
		if existing == rawURL {
			s.doc.URLList = append(s.doc.URLList[:i], s.doc.URLList[i+1:]...)

			if err := s.saveLocked(); err != nil {
				return false, err
			}

			return true, nil
		}
	}

	return false, nil
}
