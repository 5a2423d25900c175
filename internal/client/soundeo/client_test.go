package soundeo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matiasbn/dj-wizard/internal/config"
)

// newTestClient builds a client pointed at a test server.
func newTestClient(t *testing.T, serverURL string) *ClientImpl {
	t.Helper()

	cfg := &config.Config{
		SoundeoBaseURL: serverURL,
		SessionCookie:  "SNDA_SSID=test-session; snda[data]=initial",
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)

	impl, ok := client.(*ClientImpl)
	require.True(t, ok)

	return impl
}

func TestGetTrackInfo(t *testing.T) {
	t.Parallel()

	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++

		assert.Equal(t, "/tracks/status/9189456", r.URL.Path)
		assert.Equal(t, xmlHTTPRequestValue, r.Header.Get(headerXRequestedWith))
		assert.Contains(t, r.Header.Get("Cookie"), "SNDA_SSID=test-session")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"track": {
			"id": 9189456,
			"title": "Artist - Banger (Original Mix)",
			"track_url": "/tracks/artist-banger-9189456",
			"genre": "Techno",
			"date": "2024-03-01",
			"bpm": 128,
			"key": "Am",
			"size": "62.1 MB",
			"downloadable": true,
			"downloaded": false,
			"stem": false
		}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	metadata, err := client.GetTrackInfo(ctx, "9189456")
	require.NoError(t, err)

	assert.Equal(t, int64(9189456), metadata.ID)
	assert.Equal(t, "9189456", metadata.IDString())
	assert.Equal(t, "Artist - Banger (Original Mix)", metadata.Title)
	assert.Equal(t, "2024-03-01", metadata.Date)
	assert.Equal(t, uint32(128), metadata.BPM)
	assert.True(t, metadata.Downloadable)
	assert.False(t, metadata.Stem)

	// Second lookup is served from the cache.
	_, err = client.GetTrackInfo(ctx, "9189456")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestGetTrackInfoNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.GetTrackInfo(context.Background(), "404404")
	assert.ErrorIs(t, err, ErrTrackNotFound)
}

func TestGetTrackInfoSessionExpired(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.GetTrackInfo(context.Background(), "1")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestGetDownloadURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		response      string
		expectedURL   string
		expectedError error
	}{
		{
			name:        "granted",
			response:    `{"jsActions": {"redirect": {"url": "https://cdn.soundeo.com/signed/abc.aiff"}}}`,
			expectedURL: "https://cdn.soundeo.com/signed/abc.aiff",
		},
		{
			name: "budget exhausted",
			response: `{"jsActions": {"showMessage": {"message": "You have reached your limit"}},
				"header": "<span id=\"span-downloads\"><span>0</span> + <span>0</span></span>"}`,
			expectedError: ErrRateExhausted,
		},
		{
			name: "restricted with budget left",
			response: `{"jsActions": {"showMessage": {"message": "This format is not available"}},
				"header": "<span id=\"span-downloads\"><span>10</span> + <span>0</span></span>"}`,
			expectedError: ErrNotDownloadable,
		},
		{
			name:          "refusal without header fragment",
			response:      `{"jsActions": {}}`,
			expectedError: ErrNotDownloadable,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/download/777/3", r.URL.Path)

				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, testCase.response)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)

			downloadURL, err := client.GetDownloadURL(context.Background(), "777")

			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.expectedURL, downloadURL)
		})
	}
}

func TestFetchListing(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/list/tracks", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("availableFilter"))

		fmt.Fprint(w, `<html><body>
			<a class="track-download-lnk" data-track-id="1" href="#">dl</a>
			<a class="track-download-lnk" data-track-id="2" href="#">dl</a>
		</body></html>`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	trackIDs, err := client.FetchListing(context.Background(), server.URL+"/list/tracks?availableFilter=1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, trackIDs)
}

func TestProbePageExists(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "3" {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		fmt.Fprint(w, "<html>ok</html>")
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	exists, err := client.ProbePageExists(ctx, server.URL+"/list/tracks?page=2")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.ProbePageExists(ctx, server.URL+"/list/tracks?page=3")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSearchUsesListingParserAndCache(t *testing.T) {
	t.Parallel()

	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++

		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "artist banger", r.URL.Query().Get("q"))

		fmt.Fprint(w, `<a class="track-download-lnk" data-track-id="42">dl</a>`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	trackIDs, err := client.Search(ctx, "  artist banger ")
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, trackIDs)

	trackIDs, err = client.Search(ctx, "artist banger")
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, trackIDs)
	assert.Equal(t, 1, calls)
}

func TestStreamDownload(t *testing.T) {
	t.Parallel()

	payload := "AIFF-BYTES-HERE"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="Artist - Banger (Original Mix).aiff"`)
		fmt.Fprint(w, payload)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.StreamDownload(context.Background(), server.URL+"/signed/abc")
	require.NoError(t, err)

	defer result.Body.Close()

	assert.Equal(t, "Artist - Banger (Original Mix).aiff", result.Filename)
	assert.Equal(t, int64(len(payload)), result.TotalBytes)

	content, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, string(content))
}

func TestStreamDownloadRejectsNon200(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.StreamDownload(context.Background(), server.URL+"/signed/expired")
	assert.ErrorIs(t, err, ErrUnexpectedHTTPStatus)
}

func TestCheckRemainingDownloadsRotatesSession(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Cookie"), "snda[data]=initial")

		// net/http.SetCookie refuses bracket names, so write the header raw
		// exactly like the catalog's PHP stack does.
		w.Header().Add("Set-Cookie", "snda[data]=rotated; path=/; HttpOnly")
		fmt.Fprint(w, `<span id="span-downloads" title="will be reset in 2 hours"><span>99</span> + <span>1</span></span>`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	remaining, err := client.CheckRemainingDownloads(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint32(99), remaining.Main)
	assert.Equal(t, uint32(1), remaining.Bonus)
	assert.Equal(t, "will be reset in 2 hours", remaining.ResetETA)

	// The rotated cookie replaces the old value for subsequent requests.
	assert.Contains(t, client.session(), "snda[data]=rotated")
	assert.Contains(t, client.session(), "SNDA_SSID=test-session")
}

func TestCheckRemainingDownloadsLoggedOut(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html><body>Sign in</body></html>")
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.CheckRemainingDownloads(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
}
