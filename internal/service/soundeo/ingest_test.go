package soundeo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	clientsoundeo "github.com/matiasbn/dj-wizard/internal/client/soundeo"
	mock_soundeo "github.com/matiasbn/dj-wizard/internal/client/soundeo/mocks"
	"github.com/matiasbn/dj-wizard/internal/store"
)

func TestIngestURLsTrackAndListing(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock_soundeo.NewMockClient(ctrl)
	service, stateStore := newTestService(t, mockClient)

	trackURL := "https://soundeo.com/tracks/artist-name-12345"
	listingURL := "https://soundeo.com/list/tracks?availableFilter=1&page=2"

	mockClient.EXPECT().GetTrackInfo(gomock.Any(), "12345").
		Return(downloadableTrack(12345, "Artist - Name"), nil)
	mockClient.EXPECT().FetchListing(gomock.Any(), listingURL).
		Return([]string{"777", "888", "12345"}, nil)

	enqueued, err := service.IngestURLs(context.Background(), []string{trackURL, listingURL}, store.PriorityHigh)
	require.NoError(t, err)

	// 12345 from the track URL plus the two new listing ids; the duplicate
	// listing hit only re-asserts the priority.
	assert.Equal(t, 3, enqueued)
	assert.Equal(t, 3, stateStore.QueueLength())

	for _, entry := range stateStore.DequeueSorted() {
		assert.Equal(t, store.PriorityHigh, entry.Priority)
	}

	// The staged listing URL was cleared after the successful scrape.
	assert.Empty(t, stateStore.ListPendingURLs())

	// The validated track carries its metadata already.
	record, isKnown := stateStore.GetTrack("12345")
	require.True(t, isKnown)
	assert.Equal(t, "Artist - Name", record.Title)
}

func TestIngestURLsSkipsDeadLinks(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock_soundeo.NewMockClient(ctrl)
	service, stateStore := newTestService(t, mockClient)

	mockClient.EXPECT().GetTrackInfo(gomock.Any(), "404404").
		Return(nil, clientsoundeo.ErrTrackNotFound)
	mockClient.EXPECT().GetTrackInfo(gomock.Any(), "555").
		Return(downloadableTrack(555, "Artist - Alive"), nil)

	urls := []string{
		"https://soundeo.com/tracks/gone-404404",
		"https://soundeo.com/tracks/alive-555",
	}

	enqueued, err := service.IngestURLs(context.Background(), urls, store.PriorityNormal)
	require.NoError(t, err)

	// The dead link is skipped, the live one lands in the queue.
	assert.Equal(t, 1, enqueued)
	assert.True(t, stateStore.IsQueued("555"))
	assert.False(t, stateStore.IsQueued("404404"))
}

func TestIngestURLsFailedListingStaysStaged(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock_soundeo.NewMockClient(ctrl)
	service, stateStore := newTestService(t, mockClient)

	listingURL := "https://soundeo.com/list/tracks?availableFilter=1"

	mockClient.EXPECT().FetchListing(gomock.Any(), listingURL).
		Return(nil, clientsoundeo.ErrUnexpectedHTTPStatus)

	enqueued, err := service.IngestURLs(context.Background(), []string{listingURL}, store.PriorityNormal)
	require.NoError(t, err)
	assert.Zero(t, enqueued)

	// The staged URL survives so the next run can retry the scrape.
	assert.Equal(t, []string{listingURL}, stateStore.ListPendingURLs())
}

func TestResumePendingURLs(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock_soundeo.NewMockClient(ctrl)
	service, stateStore := newTestService(t, mockClient)

	listingURL := "https://soundeo.com/list/tracks?availableFilter=1&genreFilter=11"

	added, err := stateStore.AddPendingURL(listingURL)
	require.NoError(t, err)
	require.True(t, added)

	mockClient.EXPECT().FetchListing(gomock.Any(), listingURL).
		Return([]string{"901", "902"}, nil)

	enqueued, err := service.ResumePendingURLs(context.Background(), store.PriorityLow)
	require.NoError(t, err)

	assert.Equal(t, 2, enqueued)
	assert.True(t, stateStore.IsQueued("901"))
	assert.True(t, stateStore.IsQueued("902"))
	assert.Empty(t, stateStore.ListPendingURLs())
}

func TestIngestURLsReprioritizesQueuedTrack(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock_soundeo.NewMockClient(ctrl)
	service, stateStore := newTestService(t, mockClient)

	added, err := stateStore.Enqueue("606", store.PriorityLow)
	require.NoError(t, err)
	require.True(t, added)

	mockClient.EXPECT().GetTrackInfo(gomock.Any(), "606").
		Return(downloadableTrack(606, "Artist - Bumped"), nil)

	enqueued, err := service.IngestURLs(
		context.Background(),
		[]string{"https://soundeo.com/tracks/bumped-606"},
		store.PriorityHigh,
	)
	require.NoError(t, err)

	// Nothing new was enqueued but the entry moved to the high tier.
	assert.Zero(t, enqueued)

	entries := stateStore.DequeueSorted()
	require.Len(t, entries, 1)
	assert.Equal(t, store.PriorityHigh, entries[0].Priority)
}
