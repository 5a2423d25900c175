// Package spotify wraps the Spotify Web API for read-only playlist access.
// Authentication uses the client-credentials flow, so no user login or
// callback server is involved.
package spotify

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"errors"
	"fmt"

	spotifyapi "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/matiasbn/dj-wizard/internal/config"
)

// PlaylistTrack is one resolvable track of a fetched playlist. Episodes and
// local files never become PlaylistTracks because they have no catalog
// counterpart.
type PlaylistTrack struct {
	// SpotifyID is the Spotify track id.
	SpotifyID string
	// Artist is the primary artist name.
	Artist string
	// Title is the track title.
	Title string
}

// Playlist is a fetched playlist with every resolvable track.
type Playlist struct {
	// ID is the Spotify playlist id.
	ID string
	// Name is the playlist display name.
	Name string
	// URL is the public playlist URL.
	URL string
	// Tracks are the resolvable tracks in playlist order.
	Tracks []PlaylistTrack
}

// Client reads playlists from the Spotify Web API.
type Client interface {
	// FetchPlaylist returns the playlist metadata and every resolvable
	// track, paging through the whole item list.
	FetchPlaylist(ctx context.Context, playlistID string) (*Playlist, error)
}

// ClientImpl implements the Client interface over the Spotify Web API.
type ClientImpl struct {
	// api is the authenticated Web API client.
	api *spotifyapi.Client
}

// NewClient exchanges the configured client credentials and returns an
// authenticated API client. The eager exchange surfaces bad credentials
// immediately instead of on the first playlist fetch.
func NewClient(ctx context.Context, cfg *config.Config) (Client, error) {
	credentials := &clientcredentials.Config{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	if _, err := credentials.Token(ctx); err != nil {
		return nil, fmt.Errorf("failed to exchange spotify credentials: %w", err)
	}

	httpClient := oauth2.NewClient(ctx, credentials.TokenSource(ctx))

	return NewClientWithAPI(spotifyapi.New(httpClient, spotifyapi.WithRetry(true))), nil
}

// NewClientWithAPI wraps an already constructed Web API client.
func NewClientWithAPI(api *spotifyapi.Client) Client {
	return &ClientImpl{api: api}
}

// FetchPlaylist returns the playlist metadata and every resolvable track,
// paging through the whole item list.
func (c *ClientImpl) FetchPlaylist(ctx context.Context, playlistID string) (*Playlist, error) {
	id := spotifyapi.ID(playlistID)

	fullPlaylist, err := c.api.GetPlaylist(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist %s: %w", playlistID, err)
	}

	playlist := &Playlist{
		ID:   playlistID,
		Name: fullPlaylist.Name,
		URL:  fullPlaylist.ExternalURLs["spotify"],
	}

	page, err := c.api.GetPlaylistItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist items: %w", err)
	}

	for {
		for i := range page.Items {
			track := page.Items[i].Track.Track
			if track == nil {
				continue
			}

			playlist.Tracks = append(playlist.Tracks, PlaylistTrack{
				SpotifyID: string(track.ID),
				Artist:    primaryArtist(track),
				Title:     track.Name,
			})
		}

		err = c.api.NextPage(ctx, page)
		if errors.Is(err, spotifyapi.ErrNoMorePages) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to page through playlist %s: %w", playlistID, err)
		}
	}

	return playlist, nil
}

// primaryArtist returns the first listed artist, if any.
func primaryArtist(track *spotifyapi.FullTrack) string {
	if len(track.Artists) == 0 {
		return ""
	}

	return track.Artists[0].Name
}
