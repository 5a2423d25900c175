package store

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// UpsertGenre registers a genre for periodic scanning, or renames an existing
// one. The watermark and registration time of an existing genre are preserved.
func (s *Store) UpsertGenre(genreID uint32, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := genreKey(genreID)

	if existing, isTracked := s.doc.GenreTracker.Genres[key]; isTracked {
		existing.GenreName = name

		return s.saveLocked()
	}

	s.doc.GenreTracker.Genres[key] = &TrackedGenre{
		GenreID:   genreID,
		GenreName: name,
		CreatedAt: time.Now().UnixMilli(),
	}

	return s.saveLocked()
}

// GetGenre returns a copy of the tracked genre, if registered.
func (s *Store) GetGenre(genreID uint32) (*TrackedGenre, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	genre, isTracked := s.doc.GenreTracker.Genres[genreKey(genreID)]
	if !isTracked {
		return nil, false
	}

	clone := *genre

	return &clone, true
}

// ListGenres returns copies of all tracked genres sorted by id.
func (s *Store) ListGenres() []TrackedGenre {
	s.mu.Lock()
	defer s.mu.Unlock()

	genres := make([]TrackedGenre, 0, len(s.doc.GenreTracker.Genres))
	for _, genre := range s.doc.GenreTracker.Genres {
		genres = append(genres, *genre)
	}

	sort.Slice(genres, func(i, j int) bool {
		return genres[i].GenreID < genres[j].GenreID
	})

	return genres
}

// AdvanceGenreWatermark raises the genre's last-checked date to the given ISO
// date. Dates at or below the current watermark are ignored, so a partially
// completed scan can only move the watermark forward.
func (s *Store) AdvanceGenreWatermark(genreID uint32, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	genre, isTracked := s.doc.GenreTracker.Genres[genreKey(genreID)]
	if !isTracked {
		return false, fmt.Errorf("%w: %d", ErrUnknownGenre, genreID)
	}

	// ISO "YYYY-MM-DD" dates compare correctly as strings.
	if date == "" || date <= genre.LastCheckedDate {
		return false, nil
	}

	genre.LastCheckedDate = date

	if err := s.saveLocked(); err != nil {
		return false, err
	}

	return true, nil
}

// AddFavoriteArtist appends an artist filter to the genre, ignoring duplicates.
func (s *Store) AddFavoriteArtist(genreID uint32, artist string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	genre, isTracked := s.doc.GenreTracker.Genres[genreKey(genreID)]
	if !isTracked {
		return fmt.Errorf("%w: %d", ErrUnknownGenre, genreID)
	}

	for _, existing := range genre.FavoriteArtists {
		if existing == artist {
			return nil
		}
	}

	genre.FavoriteArtists = append(genre.FavoriteArtists, artist)

	return s.saveLocked()
}

// genreKey renders the genre id as the decimal document key.
func genreKey(genreID uint32) string {
	return strconv.FormatUint(uint64(genreID), 10)
}
