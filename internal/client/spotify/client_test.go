package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	spotifyapi "github.com/zmb3/spotify/v2"
)

// rewriteTransport redirects every Web API request to the test server.
type rewriteTransport struct {
	target *url.URL
}

func (t *rewriteTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	request.URL.Scheme = t.target.Scheme
	request.URL.Host = t.target.Host

	return http.DefaultTransport.RoundTrip(request)
}

// newPlaylistTestClient builds a client whose API calls land on the handler.
func newPlaylistTestClient(t *testing.T, handler http.Handler) Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	httpClient := &http.Client{Transport: &rewriteTransport{target: target}}

	return NewClientWithAPI(spotifyapi.New(httpClient))
}

func TestFetchPlaylistPagesThroughAllItems(t *testing.T) {
	t.Parallel()

	var requestCount atomic.Int32

	mux := http.NewServeMux()

	mux.HandleFunc("/v1/playlists/pl-1", func(writer http.ResponseWriter, request *http.Request) {
		requestCount.Add(1)
		writer.Header().Set("Content-Type", "application/json")

		fmt.Fprint(writer, `{
			"id": "pl-1",
			"name": "Peak Time",
			"external_urls": {"spotify": "https://open.spotify.com/playlist/pl-1"},
			"tracks": {"total": 3}
		}`)
	})

	mux.HandleFunc("/v1/playlists/pl-1/tracks", func(writer http.ResponseWriter, request *http.Request) {
		requestCount.Add(1)
		writer.Header().Set("Content-Type", "application/json")

		if request.URL.Query().Get("offset") == "" {
			// First page links to the second; the host is rewritten by the
			// test transport anyway.
			fmt.Fprint(writer, `{
				"limit": 2,
				"offset": 0,
				"total": 4,
				"next": "https://api.spotify.com/v1/playlists/pl-1/tracks?offset=2",
				"items": [
					{"track": {"type": "track", "id": "sp-1", "name": "Horizon", "artists": [{"name": "Nova"}]}},
					{"track": {"type": "track", "id": "sp-2", "name": "Skyline", "artists": [{"name": "Vera"}, {"name": "Kline"}]}}
				]
			}`)

			return
		}

		fmt.Fprint(writer, `{
			"limit": 2,
			"offset": 2,
			"total": 4,
			"next": "",
			"items": [
				{"track": {"type": "track", "id": "sp-3", "name": "Afterglow", "artists": []}},
				{"track": null}
			]
		}`)
	})

	client := newPlaylistTestClient(t, mux)

	playlist, err := client.FetchPlaylist(context.Background(), "pl-1")
	require.NoError(t, err)

	assert.Equal(t, "pl-1", playlist.ID)
	assert.Equal(t, "Peak Time", playlist.Name)
	assert.Equal(t, "https://open.spotify.com/playlist/pl-1", playlist.URL)

	// The local-file item with a null track is dropped.
	require.Len(t, playlist.Tracks, 3)
	assert.Equal(t, PlaylistTrack{SpotifyID: "sp-1", Artist: "Nova", Title: "Horizon"}, playlist.Tracks[0])
	assert.Equal(t, "Vera", playlist.Tracks[1].Artist, "the primary artist is the first listed")
	assert.Equal(t, PlaylistTrack{SpotifyID: "sp-3", Artist: "", Title: "Afterglow"}, playlist.Tracks[2])

	assert.Equal(t, int32(3), requestCount.Load())
}

func TestFetchPlaylistUnknownID(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/playlists/missing", func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusNotFound)
		fmt.Fprint(writer, `{"error": {"status": 404, "message": "Not found."}}`)
	})

	client := newPlaylistTestClient(t, mux)

	_, err := client.FetchPlaylist(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch playlist missing")
}
