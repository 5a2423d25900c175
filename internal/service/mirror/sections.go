package mirror

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"

	clientfirestore "github.com/matiasbn/dj-wizard/internal/client/firestore"
	"github.com/matiasbn/dj-wizard/internal/logger"
)

// urlDocumentIDLength is how many hex digits of the URL hash form a document id.
const urlDocumentIDLength = 16

// MigrateAvailable mirrors the granted-but-untransferred track ids. The set
// is small and carries no bitmap; upserts make reruns idempotent.
func (s *ServiceImpl) MigrateAvailable(ctx context.Context) error {
	available := s.store.ListAvailable()

	documents := make([]clientfirestore.Document, 0, len(available))
	for _, trackID := range available {
		documents = append(documents, clientfirestore.Document{
			ID:     trackID,
			Fields: map[string]any{"track_id": trackID},
		})
	}

	return s.uploadInBatches(ctx, CollectionAvailable, documents, nil)
}

// MigrateLightSections mirrors the small snapshot sections: one document per
// section plus the pending URL list collection.
func (s *ServiceImpl) MigrateLightSections(ctx context.Context) error {
	if err := s.migrateSpotifySection(ctx); err != nil {
		return err
	}

	if err := s.migrateGenreSections(ctx); err != nil {
		return err
	}

	return s.migrateURLList(ctx)
}

// BackupCombined writes the whole snapshot to the legacy combined document.
func (s *ServiceImpl) BackupCombined(ctx context.Context) error {
	payload, err := s.store.SnapshotBytes()
	if err != nil {
		return fmt.Errorf("failed to serialize the snapshot: %w", err)
	}

	var snapshot map[string]any
	if err = json.Unmarshal(payload, &snapshot); err != nil {
		return fmt.Errorf("failed to decode the snapshot: %w", err)
	}

	if err = s.cloud.SaveDocument(ctx, CollectionData, DataDocCombined, snapshot); err != nil {
		return fmt.Errorf("failed to upload the combined snapshot: %w", err)
	}

	s.recordSectionWritten()
	logger.Infof(ctx, "Uploaded the combined snapshot (%s)", humanize.Bytes(uint64(len(payload))))

	return nil
}

// migrateSpotifySection mirrors the paired playlists as one document.
func (s *ServiceImpl) migrateSpotifySection(ctx context.Context) error {
	playlists := make(map[string]any)

	for _, playlist := range s.store.ListPlaylists() {
		playlists[playlist.ID] = map[string]any{
			"id":     playlist.ID,
			"name":   playlist.Name,
			"url":    playlist.URL,
			"tracks": playlist.Tracks,
		}
	}

	fields := map[string]any{"playlists": playlists}

	if err := s.cloud.SaveDocument(ctx, CollectionData, DataDocSpotify, fields); err != nil {
		return fmt.Errorf("failed to mirror the spotify section: %w", err)
	}

	s.recordSectionWritten()
	logger.Infof(ctx, "Mirrored %d playlists", len(playlists))

	return nil
}

// migrateGenreSections mirrors the tracked genres and, separately, the
// favorite-artist sets keyed by genre id.
func (s *ServiceImpl) migrateGenreSections(ctx context.Context) error {
	genres := make(map[string]any)
	artists := make(map[string]any)

	for _, genre := range s.store.ListGenres() {
		key := strconv.FormatUint(uint64(genre.GenreID), 10)

		genres[key] = map[string]any{
			"genre_id":          int64(genre.GenreID),
			"genre_name":        genre.GenreName,
			"last_checked_date": genre.LastCheckedDate,
			"created_at":        genre.CreatedAt,
			"favorite_artists":  genre.FavoriteArtists,
		}

		if len(genre.FavoriteArtists) > 0 {
			artists[key] = genre.FavoriteArtists
		}
	}

	if err := s.cloud.SaveDocument(ctx, CollectionData, DataDocGenres, map[string]any{"genres": genres}); err != nil {
		return fmt.Errorf("failed to mirror the genre tracker: %w", err)
	}

	s.recordSectionWritten()

	if err := s.cloud.SaveDocument(ctx, CollectionData, DataDocArtists, map[string]any{"artists": artists}); err != nil {
		return fmt.Errorf("failed to mirror the favorite artists: %w", err)
	}

	s.recordSectionWritten()
	logger.Infof(ctx, "Mirrored %d tracked genres", len(genres))

	return nil
}

// migrateURLList mirrors the pending listing URLs, one document per URL,
// keyed by a hash so reruns overwrite instead of duplicating.
func (s *ServiceImpl) migrateURLList(ctx context.Context) error {
	pending := s.store.ListPendingURLs()

	documents := make([]clientfirestore.Document, 0, len(pending))
	for _, rawURL := range pending {
		documents = append(documents, clientfirestore.Document{
			ID:     urlDocumentID(rawURL),
			Fields: map[string]any{"url": rawURL},
		})
	}

	return s.uploadInBatches(ctx, CollectionURLList, documents, nil)
}

// urlDocumentID derives a stable document id from a URL.
func urlDocumentID(rawURL string) string {
	digest := sha256.Sum256([]byte(rawURL))

	return hex.EncodeToString(digest[:])[:urlDocumentIDLength]
}
