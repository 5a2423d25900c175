package mirror

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	clientfirestore "github.com/matiasbn/dj-wizard/internal/client/firestore"
	"github.com/matiasbn/dj-wizard/internal/store"
)

func TestMigrateAvailableMirrorsGrantSet(t *testing.T) {
	t.Parallel()

	service, stateStore, mockCloud := newMirrorFixture(t)

	require.NoError(t, stateStore.PromoteToAvailable("701"))
	require.NoError(t, stateStore.PromoteToAvailable("702"))

	var uploaded []clientfirestore.Document

	mockCloud.EXPECT().
		BatchWrite(gomock.Any(), CollectionAvailable, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, documents []clientfirestore.Document) error {
			uploaded = documents

			return nil
		})

	err := service.MigrateAvailable(context.Background())
	require.NoError(t, err)

	require.Len(t, uploaded, 2)
	assert.Equal(t, []string{"701", "702"}, documentIDs(uploaded))
	assert.Equal(t, "701", uploaded[0].Fields["track_id"])
}

func TestMigrateAvailableEmptySetSkipsUpload(t *testing.T) {
	t.Parallel()

	service, _, _ := newMirrorFixture(t)

	err := service.MigrateAvailable(context.Background())
	require.NoError(t, err)
}

func TestMigrateLightSectionsMirrorsEachSection(t *testing.T) {
	t.Parallel()

	service, stateStore, mockCloud := newMirrorFixture(t)

	require.NoError(t, stateStore.UpsertPlaylist("pl-1", "Peak Time", "https://open.spotify.com/playlist/pl-1"))
	require.NoError(t, stateStore.PairTrack("pl-1", "sp-9", "901"))

	require.NoError(t, stateStore.UpsertGenre(11, "Techno"))
	advanced, err := stateStore.AdvanceGenreWatermark(11, "2024-03-01")
	require.NoError(t, err)
	require.True(t, advanced)
	require.NoError(t, stateStore.AddFavoriteArtist(11, "Charlotte de Witte"))
	require.NoError(t, stateStore.UpsertGenre(13, "Trance"))

	added, err := stateStore.AddPendingURL("https://catalog.example/list/tracks?page=1")
	require.NoError(t, err)
	require.True(t, added)

	captured := make(map[string]map[string]any)

	mockCloud.EXPECT().
		SaveDocument(gomock.Any(), CollectionData, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, documentID string, fields map[string]any) error {
			captured[documentID] = fields

			return nil
		}).
		Times(3)

	var urlDocuments []clientfirestore.Document

	mockCloud.EXPECT().
		BatchWrite(gomock.Any(), CollectionURLList, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, documents []clientfirestore.Document) error {
			urlDocuments = documents

			return nil
		})

	err = service.MigrateLightSections(context.Background())
	require.NoError(t, err)

	playlists, ok := captured[DataDocSpotify]["playlists"].(map[string]any)
	require.True(t, ok)
	playlist, ok := playlists["pl-1"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Peak Time", playlist["name"])
	pairedTracks, ok := playlist["tracks"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "901", pairedTracks["sp-9"])

	genres, ok := captured[DataDocGenres]["genres"].(map[string]any)
	require.True(t, ok)
	techno, ok := genres["11"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Techno", techno["genre_name"])
	assert.Equal(t, "2024-03-01", techno["last_checked_date"])
	assert.Contains(t, genres, "13")

	// Only genres with favorite artists appear in the artists document.
	artists, ok := captured[DataDocArtists]["artists"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"Charlotte de Witte"}, artists["11"])
	assert.NotContains(t, artists, "13")

	require.Len(t, urlDocuments, 1)
	assert.Equal(t, urlDocumentID("https://catalog.example/list/tracks?page=1"), urlDocuments[0].ID)
	assert.Equal(t, "https://catalog.example/list/tracks?page=1", urlDocuments[0].Fields["url"])

	service.statsMutex.Lock()
	defer service.statsMutex.Unlock()
	assert.Equal(t, int64(3), service.stats.SectionCount)
}

func TestBackupCombinedUploadsSnapshotDocument(t *testing.T) {
	t.Parallel()

	service, stateStore, mockCloud := newMirrorFixture(t)

	storedTrack(t, stateStore, "801", "Artist - Kept")
	added, err := stateStore.Enqueue("801", store.PriorityHigh)
	require.NoError(t, err)
	require.True(t, added)

	var fields map[string]any

	mockCloud.EXPECT().
		SaveDocument(gomock.Any(), CollectionData, DataDocCombined, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, documentFields map[string]any) error {
			fields = documentFields

			return nil
		})

	err = service.BackupCombined(context.Background())
	require.NoError(t, err)

	require.Contains(t, fields, "soundeo")
	require.Contains(t, fields, "queued_tracks")
	require.Contains(t, fields, "last_update")

	soundeoSection, ok := fields["soundeo"].(map[string]any)
	require.True(t, ok)
	tracksInfo, ok := soundeoSection["tracks_info"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, tracksInfo, "801")

	queuedTracks, ok := fields["queued_tracks"].([]any)
	require.True(t, ok)
	require.Len(t, queuedTracks, 1)

	service.statsMutex.Lock()
	defer service.statsMutex.Unlock()
	assert.Equal(t, int64(1), service.stats.SectionCount)
}

func TestURLDocumentIDDeterministic(t *testing.T) {
	t.Parallel()

	first := urlDocumentID("https://catalog.example/list/a")
	second := urlDocumentID("https://catalog.example/list/a")
	other := urlDocumentID("https://catalog.example/list/b")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Len(t, first, urlDocumentIDLength)
}
