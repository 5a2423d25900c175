package soundeo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListingTrackIDs(t *testing.T) {
	t.Parallel()

	page := `
<div class="track-row">
  <a href="#" class="btn track-download-lnk" data-track-id="9189456">Download</a>
</div>
<div class="track-row">
  <a data-track-id="9189457" class="track-download-lnk disabled" href="#">Download</a>
</div>
<div class="track-row">
  <a href="#" class="track-preview-lnk" data-track-id="555">Preview</a>
</div>
<div class="track-row">
  <a href="#" class="btn track-download-lnk" data-track-id="9189456">Download again</a>
</div>`

	trackIDs := parseListingTrackIDs(page)

	// Preview anchors are ignored, duplicates collapse, order is preserved.
	assert.Equal(t, []string{"9189456", "9189457"}, trackIDs)
}

func TestParseListingTrackIDsEmptyPage(t *testing.T) {
	t.Parallel()

	assert.Empty(t, parseListingTrackIDs("<html><body>No tracks found</body></html>"))
}

func TestParseRemainingDownloads(t *testing.T) {
	t.Parallel()

	page := `<header><span id="span-downloads" title="Downloads will be reset in 11 hours">
		<span>150</span> + <span>3</span></span></header>`

	remaining, err := parseRemainingDownloads(page)
	require.NoError(t, err)

	assert.Equal(t, uint32(150), remaining.Main)
	assert.Equal(t, uint32(3), remaining.Bonus)
	assert.Equal(t, uint32(153), remaining.Total())
	assert.Equal(t, "Downloads will be reset in 11 hours", remaining.ResetETA)
}

func TestParseRemainingDownloadsZeroBudget(t *testing.T) {
	t.Parallel()

	page := `<span id="span-downloads"><span>0</span> + <span>0</span></span>`

	remaining, err := parseRemainingDownloads(page)
	require.NoError(t, err)

	assert.Zero(t, remaining.Total())
	assert.Empty(t, remaining.ResetETA)
}

func TestParseRemainingDownloadsMissingWidget(t *testing.T) {
	t.Parallel()

	_, err := parseRemainingDownloads("<html><body>Please log in</body></html>")
	assert.ErrorIs(t, err, ErrDownloadsCounterNotFound)
}

func TestExtractTrackID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rawURL   string
		expected string
		found    bool
	}{
		{
			name:     "track page with slug",
			rawURL:   "https://soundeo.com/tracks/artist-some-title-9189456",
			expected: "9189456",
			found:    true,
		},
		{
			name:     "bare track path",
			rawURL:   "https://soundeo.com/track/12345",
			expected: "12345",
			found:    true,
		},
		{
			name:     "track page with query",
			rawURL:   "https://soundeo.com/tracks/artist-title-777?ref=home",
			expected: "777",
			found:    true,
		},
		{
			name:   "listing URL",
			rawURL: "https://soundeo.com/list/tracks?genreFilter=14&page=2",
			found:  false,
		},
		{
			name:   "unrelated URL",
			rawURL: "https://example.com/something",
			found:  false,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			trackID, found := ExtractTrackID(testCase.rawURL)
			assert.Equal(t, testCase.found, found)

			if testCase.found {
				assert.Equal(t, testCase.expected, trackID)
			}
		})
	}
}

func TestMergeCookieHeader(t *testing.T) {
	t.Parallel()

	merged := mergeCookieHeader("SNDA_SSID=abc; snda[data]=old", nil)
	assert.Equal(t, "SNDA_SSID=abc; snda[data]=old", merged)

	updates := parseSetCookieNames([]string{
		"snda[data]=new; path=/; HttpOnly",
		"extra=1",
	})

	merged = mergeCookieHeader("SNDA_SSID=abc; snda[data]=old", updates)
	assert.Equal(t, "SNDA_SSID=abc; snda[data]=new; extra=1", merged)
}
