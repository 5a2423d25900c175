package firestore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	firestorev1 "google.golang.org/api/firestore/v1"
	"google.golang.org/api/option"

	"github.com/matiasbn/dj-wizard/internal/config"
)

const (
	testDocumentsPrefix = "/v1/projects/test-project/databases/(default)/documents"
	testUserPrefix      = testDocumentsPrefix + "/users/test-user"
)

// newCloudTestClient points a client at a local server.
func newCloudTestClient(t *testing.T, serverURL string) *ClientImpl {
	t.Helper()

	service, err := firestorev1.NewService(context.Background(),
		option.WithEndpoint(serverURL), option.WithoutAuthentication())
	require.NoError(t, err)

	cfg := &config.Config{FirebaseProject: "test-project", FirebaseUserID: "test-user"}

	client, ok := NewClientWithService(cfg, service).(*ClientImpl)
	require.True(t, ok, "Client should be of type *ClientImpl")

	client.backoffUnit = time.Millisecond

	return client
}

func TestSaveAndLoadDocument(t *testing.T) {
	t.Parallel()

	var savedBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			assert.Equal(t, testUserPrefix+"/soundeo_tracks/9189456", r.URL.Path)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&savedBody))
			fmt.Fprint(w, `{}`)
		case http.MethodGet:
			assert.Equal(t, testUserPrefix+"/soundeo_tracks/9189456", r.URL.Path)
			fmt.Fprintf(w, `{
				"name": "projects/test-project/databases/(default)/documents/users/test-user/soundeo_tracks/9189456",
				"fields": {
					"title": {"stringValue": "Artist - Banger"},
					"bpm": {"integerValue": "128"},
					"downloadable": {"booleanValue": true}
				}
			}`)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	client := newCloudTestClient(t, server.URL)
	ctx := context.Background()

	err := client.SaveDocument(ctx, "soundeo_tracks", "9189456", map[string]any{
		"title":    "Artist - Banger",
		"mirrored": false,
	})
	require.NoError(t, err)

	// The false flag must have survived serialization.
	fields, ok := savedBody["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"booleanValue": false}, fields["mirrored"])

	document, err := client.LoadDocument(ctx, "soundeo_tracks", "9189456")
	require.NoError(t, err)

	assert.Equal(t, "9189456", document.ID)
	assert.Equal(t, "Artist - Banger", document.Fields["title"])
	assert.Equal(t, int64(128), document.Fields["bpm"])
	assert.Equal(t, true, document.Fields["downloadable"])
}

func TestLoadDocumentNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"code": 404, "message": "not found", "status": "NOT_FOUND"}}`)
	}))
	defer server.Close()

	client := newCloudTestClient(t, server.URL)

	_, err := client.LoadDocument(context.Background(), "soundeo_tracks", "404404")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDeleteDocumentMissingIsNotAnError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"code": 404, "message": "not found", "status": "NOT_FOUND"}}`)
	}))
	defer server.Close()

	client := newCloudTestClient(t, server.URL)

	err := client.DeleteDocument(context.Background(), "queued_tracks", "123")
	require.NoError(t, err)
}

func TestListAllDocumentsPaginates(t *testing.T) {
	t.Parallel()

	var pages atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testUserPrefix+"/soundeo_tracks", r.URL.Path)
		assert.Equal(t, "1000", r.URL.Query().Get("pageSize"))

		switch pages.Add(1) {
		case 1:
			assert.Empty(t, r.URL.Query().Get("pageToken"))
			fmt.Fprintf(w, `{
				"documents": [
					{"name": "%[1]s/soundeo_tracks/111", "fields": {"title": {"stringValue": "One"}}},
					{"name": "%[1]s/soundeo_tracks/222", "fields": {"title": {"stringValue": "Two"}}}
				],
				"nextPageToken": "page-two"
			}`, "projects/test-project/databases/(default)/documents/users/test-user")
		case 2:
			assert.Equal(t, "page-two", r.URL.Query().Get("pageToken"))
			fmt.Fprintf(w, `{
				"documents": [
					{"name": "%s/soundeo_tracks/333", "fields": {"title": {"stringValue": "Three"}}}
				]
			}`, "projects/test-project/databases/(default)/documents/users/test-user")
		default:
			t.Error("unexpected third page request")
		}
	}))
	defer server.Close()

	client := newCloudTestClient(t, server.URL)

	ids, err := client.ListAllDocumentIDs(context.Background(), "soundeo_tracks")
	require.NoError(t, err)

	assert.Equal(t, []string{"111", "222", "333"}, ids)
	assert.Equal(t, int32(2), pages.Load())
}

func TestBatchWriteRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testDocumentsPrefix+":batchWrite", r.URL.Path)

		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, `{"error": {"code": 503, "message": "unavailable", "status": "UNAVAILABLE"}}`)

			return
		}

		var request firestorev1.BatchWriteRequest

		assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))

		if assert.Len(t, request.Writes, 2) {
			assert.Equal(t,
				"projects/test-project/databases/(default)/documents/users/test-user/queued_tracks/111",
				request.Writes[0].Update.Name)
		}

		fmt.Fprint(w, `{"status": [{}, {}], "writeResults": [{}, {}]}`)
	}))
	defer server.Close()

	client := newCloudTestClient(t, server.URL)

	err := client.BatchWrite(context.Background(), "queued_tracks", []Document{
		{ID: "111", Fields: map[string]any{"track_id": "111", "priority": "High"}},
		{ID: "222", Fields: map[string]any{"track_id": "222", "priority": "Normal"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestBatchWriteGivesUpAfterRepeatedServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": {"code": 500, "message": "boom", "status": "INTERNAL"}}`)
	}))
	defer server.Close()

	client := newCloudTestClient(t, server.URL)

	err := client.BatchWrite(context.Background(), "queued_tracks", []Document{
		{ID: "111", Fields: map[string]any{"track_id": "111"}},
	})
	require.Error(t, err)
	assert.Equal(t, int32(batchWriteAttempts), calls.Load())
}

func TestBatchWriteDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"code": 403, "message": "denied", "status": "PERMISSION_DENIED"}}`)
	}))
	defer server.Close()

	client := newCloudTestClient(t, server.URL)

	err := client.BatchWrite(context.Background(), "queued_tracks", []Document{
		{ID: "111", Fields: map[string]any{"track_id": "111"}},
	})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestBatchWriteReportsRejectedWrites(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"status": [{}, {"code": 7, "message": "permission denied"}],
			"writeResults": [{}, {}]
		}`)
	}))
	defer server.Close()

	client := newCloudTestClient(t, server.URL)

	err := client.BatchWrite(context.Background(), "queued_tracks", []Document{
		{ID: "111", Fields: map[string]any{"track_id": "111"}},
		{ID: "222", Fields: map[string]any{"track_id": "222"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBatchWriteFailed)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestBatchWriteRejectsOversizedBatches(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected for an oversized batch")
	}))
	defer server.Close()

	client := newCloudTestClient(t, server.URL)

	documents := make([]Document, maxBatchWriteSize+1)
	for index := range documents {
		documents[index] = Document{ID: fmt.Sprintf("%d", index), Fields: map[string]any{}}
	}

	err := client.BatchWrite(context.Background(), "queued_tracks", documents)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestBatchWriteSkipsEmptyBatches(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected for an empty batch")
	}))
	defer server.Close()

	client := newCloudTestClient(t, server.URL)

	require.NoError(t, client.BatchWrite(context.Background(), "queued_tracks", nil))
}
