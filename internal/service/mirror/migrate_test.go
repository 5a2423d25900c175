package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	clientfirestore "github.com/matiasbn/dj-wizard/internal/client/firestore"
	mock_firestore "github.com/matiasbn/dj-wizard/internal/client/firestore/mocks"
	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/display"
	"github.com/matiasbn/dj-wizard/internal/store"
)

// newMirrorFixture builds a migration service over a temp-dir store with a
// muted display and a single upload worker.
func newMirrorFixture(t *testing.T) (*ServiceImpl, *store.Store, *mock_firestore.MockClient) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockCloud := mock_firestore.NewMockClient(ctrl)

	cfg := &config.Config{MigrationWorkers: 1}

	stateStore, err := store.Open(filepath.Join(t.TempDir(), store.DefaultSnapshotFilename))
	require.NoError(t, err)

	service, ok := NewService(cfg, mockCloud, stateStore).(*ServiceImpl)
	require.True(t, ok, "Service should be of type *ServiceImpl")

	service.newDisplay = func(workerCount int) *display.Display {
		return display.New(io.Discard, workerCount)
	}

	return service, stateStore, mockCloud
}

// storedTrack persists a minimal downloadable track record.
func storedTrack(t *testing.T, stateStore *store.Store, id, title string) {
	t.Helper()

	err := stateStore.UpsertTrack(&store.TrackRecord{
		ID:           id,
		Title:        title,
		TrackURL:     "https://catalog.example/tracks/" + id,
		Genre:        "Techno",
		Date:         "2024-03-01",
		Downloadable: true,
	})
	require.NoError(t, err)
}

// documentIDs extracts the ids of the captured documents.
func documentIDs(documents []clientfirestore.Document) []string {
	ids := make([]string, 0, len(documents))
	for _, document := range documents {
		ids = append(ids, document.ID)
	}

	return ids
}

func TestMigrateTracksUploadsPendingRecords(t *testing.T) {
	t.Parallel()

	service, stateStore, mockCloud := newMirrorFixture(t)

	storedTrack(t, stateStore, "301", "Artist - One")
	storedTrack(t, stateStore, "302", "Artist - Two")
	storedTrack(t, stateStore, "303", "Artist - Three")
	require.NoError(t, stateStore.MarkTracksMirrored([]string{"303"}))

	var uploaded []clientfirestore.Document

	mockCloud.EXPECT().ListAllDocumentIDs(gomock.Any(), CollectionTracks).Return(nil, nil)
	mockCloud.EXPECT().
		BatchWrite(gomock.Any(), CollectionTracks, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, documents []clientfirestore.Document) error {
			uploaded = documents

			return nil
		})

	err := service.MigrateTracks(context.Background())
	require.NoError(t, err)

	// The record flagged before the run stays out of the batch.
	require.Len(t, uploaded, 2)
	assert.Equal(t, []string{"301", "302"}, documentIDs(uploaded))
	assert.Equal(t, "Artist - One", uploaded[0].Fields["title"])
	assert.Equal(t, "https://catalog.example/tracks/301", uploaded[0].Fields["track_url"])
	assert.Equal(t, false, uploaded[0].Fields["already_downloaded"])

	for _, trackID := range []string{"301", "302"} {
		record, isKnown := stateStore.GetTrack(trackID)
		require.True(t, isKnown)
		assert.True(t, record.Mirrored, "record %s should be flagged mirrored", trackID)
		assert.True(t, stateStore.IsTrackMigrated(trackID))
	}

	service.statsMutex.Lock()
	defer service.statsMutex.Unlock()
	assert.Equal(t, int64(2), service.stats.CandidateCount)
	assert.Equal(t, int64(2), service.stats.MigratedCount)
	assert.Zero(t, service.stats.SkippedCount)
}

func TestMigrateTracksFlagsRemoteHeldRecordsWithoutUpload(t *testing.T) {
	t.Parallel()

	service, stateStore, mockCloud := newMirrorFixture(t)

	storedTrack(t, stateStore, "401", "Artist - Held")
	storedTrack(t, stateStore, "402", "Artist - Fresh")

	var uploaded []clientfirestore.Document

	// The cloud already holds 401, e.g. from a run on another machine.
	mockCloud.EXPECT().ListAllDocumentIDs(gomock.Any(), CollectionTracks).Return([]string{"401"}, nil)
	mockCloud.EXPECT().
		BatchWrite(gomock.Any(), CollectionTracks, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, documents []clientfirestore.Document) error {
			uploaded = documents

			return nil
		})

	err := service.MigrateTracks(context.Background())
	require.NoError(t, err)

	require.Len(t, uploaded, 1)
	assert.Equal(t, "402", uploaded[0].ID)

	heldRecord, isKnown := stateStore.GetTrack("401")
	require.True(t, isKnown)
	assert.True(t, heldRecord.Mirrored, "the remote-held record only gets the local flag")

	freshRecord, isKnown := stateStore.GetTrack("402")
	require.True(t, isKnown)
	assert.True(t, freshRecord.Mirrored)

	service.statsMutex.Lock()
	defer service.statsMutex.Unlock()
	assert.Equal(t, int64(1), service.stats.CandidateCount)
	assert.Equal(t, int64(1), service.stats.MigratedCount)
	assert.Equal(t, int64(1), service.stats.SkippedCount)
}

func TestMigrateTracksRecordsBatchFailures(t *testing.T) {
	t.Parallel()

	service, stateStore, mockCloud := newMirrorFixture(t)

	storedTrack(t, stateStore, "501", "Artist - Unlucky")

	mockCloud.EXPECT().ListAllDocumentIDs(gomock.Any(), CollectionTracks).Return(nil, nil)
	mockCloud.EXPECT().
		BatchWrite(gomock.Any(), CollectionTracks, gomock.Any()).
		Return(errors.New("quota exhausted"))

	// A lost batch is recorded, not returned; the next run retries it.
	err := service.MigrateTracks(context.Background())
	require.NoError(t, err)

	record, isKnown := stateStore.GetTrack("501")
	require.True(t, isKnown)
	assert.False(t, record.Mirrored)
	assert.False(t, stateStore.IsTrackMigrated("501"))

	service.statsMutex.Lock()
	defer service.statsMutex.Unlock()
	assert.Equal(t, int64(1), service.stats.FailedCount)
	assert.Zero(t, service.stats.MigratedCount)
	require.Len(t, service.stats.Errors, 1)
	assert.Contains(t, service.stats.Errors[0].Error(), "quota exhausted")
}

func TestMigrateTracksListFailure(t *testing.T) {
	t.Parallel()

	service, _, mockCloud := newMirrorFixture(t)

	mockCloud.EXPECT().
		ListAllDocumentIDs(gomock.Any(), CollectionTracks).
		Return(nil, errors.New("permission denied"))

	err := service.MigrateTracks(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list mirrored tracks")
}

func TestMigrateTracksSplitsLargeSetsIntoBatches(t *testing.T) {
	t.Parallel()

	service, stateStore, mockCloud := newMirrorFixture(t)

	const trackCount = 45

	for i := 0; i < trackCount; i++ {
		trackID := strconv.Itoa(1000 + i)
		storedTrack(t, stateStore, trackID, fmt.Sprintf("Artist - %s", trackID))
	}

	var uploadedTotal int

	mockCloud.EXPECT().ListAllDocumentIDs(gomock.Any(), CollectionTracks).Return(nil, nil)
	mockCloud.EXPECT().
		BatchWrite(gomock.Any(), CollectionTracks, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, documents []clientfirestore.Document) error {
			assert.LessOrEqual(t, len(documents), migrationBatchSize)
			uploadedTotal += len(documents)

			return nil
		}).
		Times(3)

	err := service.MigrateTracks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, trackCount, uploadedTotal)
	assert.Empty(t, stateStore.ListPendingMirrorTracks())

	service.statsMutex.Lock()
	defer service.statsMutex.Unlock()
	assert.Equal(t, int64(trackCount), service.stats.MigratedCount)
}

func TestMigrateTracksStopsQueueingOnCancellation(t *testing.T) {
	t.Parallel()

	service, stateStore, mockCloud := newMirrorFixture(t)

	storedTrack(t, stateStore, "551", "Artist - Interrupted")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The remote listing still runs; no batch is handed to a worker afterwards.
	mockCloud.EXPECT().ListAllDocumentIDs(gomock.Any(), CollectionTracks).Return(nil, nil)

	err := service.MigrateTracks(ctx)
	require.NoError(t, err)

	record, isKnown := stateStore.GetTrack("551")
	require.True(t, isKnown)
	assert.False(t, record.Mirrored)
}

func TestMigrateQueueUploadsPendingEntries(t *testing.T) {
	t.Parallel()

	service, stateStore, mockCloud := newMirrorFixture(t)

	added, err := stateStore.Enqueue("601", store.PriorityNormal)
	require.NoError(t, err)
	require.True(t, added)

	added, err = stateStore.Enqueue("602", store.PriorityHigh)
	require.NoError(t, err)
	require.True(t, added)

	var uploaded []clientfirestore.Document

	mockCloud.EXPECT().ListAllDocumentIDs(gomock.Any(), CollectionQueue).Return([]string{"602"}, nil)
	mockCloud.EXPECT().
		BatchWrite(gomock.Any(), CollectionQueue, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, documents []clientfirestore.Document) error {
			uploaded = documents

			return nil
		})

	err = service.MigrateQueue(context.Background())
	require.NoError(t, err)

	require.Len(t, uploaded, 1)
	assert.Equal(t, "601", uploaded[0].ID)
	assert.Equal(t, "601", uploaded[0].Fields["track_id"])
	assert.Equal(t, string(store.PriorityNormal), uploaded[0].Fields["priority"])
	assert.IsType(t, int64(0), uploaded[0].Fields["added_at"])

	assert.True(t, stateStore.IsQueueMigrated("601"))
	assert.True(t, stateStore.IsQueueMigrated("602"))
	assert.Empty(t, stateStore.ListPendingMirrorQueue())

	service.statsMutex.Lock()
	defer service.statsMutex.Unlock()
	assert.Equal(t, int64(1), service.stats.MigratedCount)
	assert.Equal(t, int64(1), service.stats.SkippedCount)
}

func TestPartitionBatchesChunksFixedSize(t *testing.T) {
	t.Parallel()

	documents := make([]clientfirestore.Document, 45)
	for i := range documents {
		documents[i] = clientfirestore.Document{ID: strconv.Itoa(1000 + i)}
	}

	batches := partitionBatches(documents)

	require.Len(t, batches, 3)
	assert.Len(t, batches[0].documents, 20)
	assert.Len(t, batches[1].documents, 20)
	assert.Len(t, batches[2].documents, 5)

	assert.Len(t, batches[0].id, 8)
	assert.NotEqual(t, batches[0].id, batches[1].id)

	assert.Equal(t, "1000", batches[0].documentIDs[0])
	assert.Equal(t, "1044", batches[2].documentIDs[4])
}
