// Package spotify pairs Spotify playlist items with catalog tracks. Each
// resolvable item is searched on the catalog, the first hit is recorded as
// the pairing and enqueued for download. Pairings persist in the snapshot,
// so re-running a playlist only processes its new items.
package spotify

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	clientsoundeo "github.com/matiasbn/dj-wizard/internal/client/soundeo"
	clientspotify "github.com/matiasbn/dj-wizard/internal/client/spotify"
	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/store"
	"github.com/matiasbn/dj-wizard/internal/utils"
)

// Static error definitions for better error handling.
var (
	ErrInvalidPlaylistRef = errors.New("could not extract a playlist id")
)

// playlistRefPattern matches a playlist id inside a share URL, a Spotify
// URI or a bare id. Playlist ids are 22 base62 characters.
var playlistRefPattern = regexp.MustCompile(`(?:playlist[/:])?(?P<id>[0-9A-Za-z]{22})`)

// Service pairs Spotify playlists with catalog tracks.
type Service interface {
	// PairPlaylist fetches a playlist, pairs every unpaired item with a
	// catalog track and enqueues the matches. Accepts a share URL, a
	// Spotify URI or a bare playlist id.
	PairPlaylist(ctx context.Context, playlistRef string) error
	// PrintPairSummary prints a formatted summary of the pairing run.
	PrintPairSummary(ctx context.Context)
}

// ServiceImpl implements the playlist pairing over the snapshot store.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// spotify reads playlists from the Spotify Web API.
	spotify clientspotify.Client
	// catalog searches and describes catalog tracks.
	catalog clientsoundeo.Client
	// store owns the persistent state snapshot.
	store *store.Store
	// limiter paces catalog searches for politeness.
	limiter *rate.Limiter
	// stats tracks pairing statistics.
	stats *PairStatistics
	// statsMutex protects concurrent access to statistics.
	statsMutex *sync.Mutex
}

// NewService creates a pairing service bound to both clients and a state store.
func NewService(
	cfg *config.Config,
	spotifyClient clientspotify.Client,
	catalogClient clientsoundeo.Client,
	stateStore *store.Store,
) Service {
	ratePerSecond := cfg.ListingRatePerSecond
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}

	return &ServiceImpl{
		cfg:        cfg,
		spotify:    spotifyClient,
		catalog:    catalogClient,
		store:      stateStore,
		limiter:    rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		stats:      new(PairStatistics),
		statsMutex: new(sync.Mutex),
	}
}

// PairPlaylist fetches a playlist, pairs every unpaired item with a catalog
// track and enqueues the matches.
func (s *ServiceImpl) PairPlaylist(ctx context.Context, playlistRef string) error {
	s.statsMutex.Lock()
	s.stats.StartTime = time.Now()
	s.statsMutex.Unlock()

	defer func() {
		s.statsMutex.Lock()
		s.stats.EndTime = time.Now()
		s.statsMutex.Unlock()
	}()

	playlistID, err := parsePlaylistRef(playlistRef)
	if err != nil {
		return err
	}

	playlist, err := s.spotify.FetchPlaylist(ctx, playlistID)
	if err != nil {
		return err
	}

	err = s.store.UpsertPlaylist(playlist.ID, playlist.Name, playlist.URL)
	if err != nil {
		return fmt.Errorf("failed to register playlist '%s': %w", playlist.Name, err)
	}

	s.statsMutex.Lock()
	s.stats.PlaylistName = playlist.Name
	s.stats.TotalTracks = int64(len(playlist.Tracks))
	s.statsMutex.Unlock()

	logger.Infof(ctx, "Pairing playlist '%s' (%d tracks)", playlist.Name, len(playlist.Tracks))

	for i := range playlist.Tracks {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = s.pairTrack(ctx, playlist.ID, &playlist.Tracks[i])
		if err != nil {
			return err
		}
	}

	return nil
}

// pairTrack resolves one playlist item against the catalog and enqueues the
// match. Items without a hit are recorded as unmatched, not failed.
func (s *ServiceImpl) pairTrack(ctx context.Context, playlistID string, track *clientspotify.PlaylistTrack) error {
	if _, isPaired := s.store.PairedTrack(playlistID, track.SpotifyID); isPaired {
		s.recordAlreadyPaired()

		return nil
	}

	label := searchTerm(track)

	err := s.limiter.Wait(ctx)
	if err != nil {
		return err
	}

	hits, err := s.catalog.Search(ctx, label)
	if err != nil {
		return fmt.Errorf("failed to search for '%s': %w", label, err)
	}

	if len(hits) == 0 {
		s.recordUnmatched(label)
		logger.Debugf(ctx, "No catalog hit for '%s'", label)

		return nil
	}

	trackID := hits[0]

	metadata, err := s.catalog.GetTrackInfo(ctx, trackID)
	if err != nil {
		// A hit that cannot be described is as good as no hit.
		if errors.Is(err, clientsoundeo.ErrTrackNotFound) {
			s.recordUnmatched(label)

			return nil
		}

		return fmt.Errorf("failed to describe track %s: %w", trackID, err)
	}

	err = s.store.UpsertTrack(trackRecordFromMetadata(metadata))
	if err != nil {
		return err
	}

	err = s.store.PairTrack(playlistID, track.SpotifyID, trackID)
	if err != nil {
		return err
	}

	added, err := s.store.Enqueue(trackID, store.PriorityNormal)
	if err != nil {
		return err
	}

	s.recordPaired(added)

	logger.Debugf(ctx, "Paired '%s' with '%s' (%s)", label, metadata.Title, trackID)

	return nil
}

// parsePlaylistRef extracts the playlist id from a share URL, a Spotify URI
// or a bare id.
func parsePlaylistRef(playlistRef string) (string, error) {
	playlistID := utils.ExtractNamedGroup(playlistRefPattern, "id", strings.TrimSpace(playlistRef))
	if playlistID == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidPlaylistRef, playlistRef)
	}

	return playlistID, nil
}

// searchTerm renders the catalog search term of a playlist item.
func searchTerm(track *clientspotify.PlaylistTrack) string {
	return strings.TrimSpace(track.Artist + " " + track.Title)
}

// trackRecordFromMetadata converts catalog metadata into a snapshot record.
func trackRecordFromMetadata(metadata *clientsoundeo.TrackMetadata) *store.TrackRecord {
	return &store.TrackRecord{
		ID:           metadata.IDString(),
		Title:        metadata.Title,
		TrackURL:     metadata.TrackURL,
		Cover:        metadata.Cover,
		Release:      metadata.Release,
		Label:        metadata.Label,
		Genre:        metadata.Genre,
		Date:         metadata.Date,
		BPM:          metadata.BPM,
		Key:          metadata.Key,
		Size:         metadata.Size,
		Downloadable: metadata.Downloadable,
	}
}
