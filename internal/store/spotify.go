package store

import (
	"fmt"
	"sort"
)

// UpsertPlaylist registers a Spotify playlist, preserving existing pairings.
func (s *Store) UpsertPlaylist(playlistID, name, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, isKnown := s.doc.Spotify.Playlists[playlistID]; isKnown {
		existing.Name = name
		existing.URL = url

		return s.saveLocked()
	}

	s.doc.Spotify.Playlists[playlistID] = &Playlist{
		ID:     playlistID,
		Name:   name,
		URL:    url,
		Tracks: make(map[string]string),
	}

	return s.saveLocked()
}

// GetPlaylist returns a copy of the playlist, if registered.
func (s *Store) GetPlaylist(playlistID string) (*Playlist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, isKnown := s.doc.Spotify.Playlists[playlistID]
	if !isKnown {
		return nil, false
	}

	clone := *playlist
	clone.Tracks = make(map[string]string, len(playlist.Tracks))

	for spotifyID, soundeoID := range playlist.Tracks {
		clone.Tracks[spotifyID] = soundeoID
	}

	return &clone, true
}

// ListPlaylists returns copies of all registered playlists sorted by name.
func (s *Store) ListPlaylists() []Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlists := make([]Playlist, 0, len(s.doc.Spotify.Playlists))

	for _, playlist := range s.doc.Spotify.Playlists {
		clone := *playlist
		clone.Tracks = make(map[string]string, len(playlist.Tracks))

		for spotifyID, soundeoID := range playlist.Tracks {
			clone.Tracks[spotifyID] = soundeoID
		}

		playlists = append(playlists, clone)
	}

	sort.Slice(playlists, func(i, j int) bool {
		return playlists[i].Name < playlists[j].Name
	})

	return playlists
}

// PairTrack records that a Spotify track resolved to a catalog track.
func (s *Store) PairTrack(playlistID, spotifyTrackID, catalogTrackID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, isKnown := s.doc.Spotify.Playlists[playlistID]
	if !isKnown {
		return fmt.Errorf("%w: %s", ErrUnknownPlaylist, playlistID)
	}

	if playlist.Tracks == nil {
		playlist.Tracks = make(map[string]string)
	}

	playlist.Tracks[spotifyTrackID] = catalogTrackID

	return s.saveLocked()
}

// PairedTrack returns the catalog track id a Spotify track was paired with.
func (s *Store) PairedTrack(playlistID, spotifyTrackID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, isKnown := s.doc.Spotify.Playlists[playlistID]
	if !isKnown {
		return "", false
	}

	catalogTrackID, isPaired := playlist.Tracks[spotifyTrackID]

	return catalogTrackID, isPaired
}
