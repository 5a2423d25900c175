// Package firestore talks to the Firestore REST document API. It carries the
// snapshot sections the cloud mirror writes: one document per track or queue
// entry, plus a handful of single documents for the small sections.
package firestore

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"

	firestorev1 "google.golang.org/api/firestore/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
)

const (
	// listPageSize is the page size used when listing whole collections.
	listPageSize = 1000

	// maxBatchWriteSize is the hard per-request write limit of the API.
	maxBatchWriteSize = 500

	// batchWriteAttempts bounds retries of a failed batch write.
	batchWriteAttempts = 3

	// batchWriteBackoff is multiplied by the attempt number between retries.
	batchWriteBackoff = time.Second
)

// Document is one decoded document of a cloud collection.
type Document struct {
	// ID is the document id within its collection.
	ID string
	// Fields is the decoded document body.
	Fields map[string]any
}

// Client defines the interface for the cloud document store.
type Client interface {
	// BatchWrite upserts up to 500 documents in one request, retrying
	// transient failures with a linear backoff.
	BatchWrite(ctx context.Context, collection string, documents []Document) error
	// DeleteDocument removes a document. A missing document is not an error.
	DeleteDocument(ctx context.Context, collection, documentID string) error
	// ListAllDocumentIDs pages through a collection and returns every document id.
	ListAllDocumentIDs(ctx context.Context, collection string) ([]string, error)
	// ListAllDocuments pages through a collection and returns every document.
	ListAllDocuments(ctx context.Context, collection string) ([]Document, error)
	// LoadDocument fetches one document, returning ErrDocumentNotFound when
	// it does not exist.
	LoadDocument(ctx context.Context, collection, documentID string) (*Document, error)
	// SaveDocument upserts one document.
	SaveDocument(ctx context.Context, collection, documentID string, fields map[string]any) error
}

// ClientImpl implements the Client interface over the Firestore REST API.
type ClientImpl struct {
	// service is the generated REST client.
	service *firestorev1.Service
	// databasePath is "projects/{project}/databases/(default)".
	databasePath string
	// documentsRoot is the user's document tree root under the database.
	documentsRoot string
	// backoffUnit is the base pause between batch retries.
	backoffUnit time.Duration
}

// NewClient exchanges the configured refresh token and returns a client
// rooted at the user's document tree.
func NewClient(ctx context.Context, cfg *config.Config) (Client, error) {
	tokenSource, err := newTokenSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	service, err := firestorev1.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create document service: %w", err)
	}

	return NewClientWithService(cfg, service), nil
}

// NewClientWithService wires an existing REST service. Tests use it to point
// the client at a local server.
func NewClientWithService(cfg *config.Config, service *firestorev1.Service) Client {
	databasePath := fmt.Sprintf("projects/%s/databases/(default)", cfg.FirebaseProject)

	return &ClientImpl{
		service:       service,
		databasePath:  databasePath,
		documentsRoot: fmt.Sprintf("%s/documents/users/%s", databasePath, cfg.FirebaseUserID),
		backoffUnit:   batchWriteBackoff,
	}
}

// BatchWrite upserts the documents in one request. Transport failures and
// server 5xx responses are retried; a write rejected inside an otherwise
// successful response fails the whole batch without a retry.
func (c *ClientImpl) BatchWrite(ctx context.Context, collection string, documents []Document) error {
	if len(documents) == 0 {
		return nil
	}

	if len(documents) > maxBatchWriteSize {
		return fmt.Errorf("%w: %d writes", ErrBatchTooLarge, len(documents))
	}

	writes := make([]*firestorev1.Write, 0, len(documents))

	for _, document := range documents {
		fields, err := EncodeFields(document.Fields)
		if err != nil {
			return fmt.Errorf("failed to encode document '%s': %w", document.ID, err)
		}

		writes = append(writes, &firestorev1.Write{
			Update: &firestorev1.Document{
				Name:   c.documentName(collection, document.ID),
				Fields: fields,
			},
		})
	}

	request := &firestorev1.BatchWriteRequest{Writes: writes}

	var lastErr error

	for attempt := 1; attempt <= batchWriteAttempts; attempt++ {
		response, err := c.service.Projects.Databases.Documents.
			BatchWrite(c.databasePath, request).Context(ctx).Do()
		if err == nil {
			return checkBatchStatuses(response)
		}

		if !isRetryableCloudError(err) {
			return fmt.Errorf("failed to write batch: %w", err)
		}

		lastErr = err

		logger.Warnf(ctx, "Batch write attempt %d/%d failed: %v", attempt, batchWriteAttempts, err)

		if attempt < batchWriteAttempts {
			if pauseErr := c.pauseBetweenAttempts(ctx, attempt); pauseErr != nil {
				return pauseErr
			}
		}
	}

	return fmt.Errorf("failed to write batch after %d attempts: %w", batchWriteAttempts, lastErr)
}

// DeleteDocument removes a document, treating an already missing one as done.
func (c *ClientImpl) DeleteDocument(ctx context.Context, collection, documentID string) error {
	_, err := c.service.Projects.Databases.Documents.
		Delete(c.documentName(collection, documentID)).Context(ctx).Do()
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete document '%s': %w", documentID, err)
	}

	return nil
}

// ListAllDocumentIDs pages through a collection and returns every document id.
func (c *ClientImpl) ListAllDocumentIDs(ctx context.Context, collection string) ([]string, error) {
	documents, err := c.ListAllDocuments(ctx, collection)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(documents))
	for _, document := range documents {
		ids = append(ids, document.ID)
	}

	return ids, nil
}

// ListAllDocuments pages through a collection with the maximum page size
// until the server stops returning a continuation token.
func (c *ClientImpl) ListAllDocuments(ctx context.Context, collection string) ([]Document, error) {
	var (
		documents []Document
		pageToken string
	)

	for {
		call := c.service.Projects.Databases.Documents.
			List(c.documentsRoot, collection).PageSize(listPageSize).Context(ctx)

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list collection '%s': %w", collection, err)
		}

		for _, document := range response.Documents {
			documents = append(documents, Document{
				ID:     path.Base(document.Name),
				Fields: DecodeFields(document.Fields),
			})
		}

		if response.NextPageToken == "" {
			return documents, nil
		}

		pageToken = response.NextPageToken
	}
}

// LoadDocument fetches one document.
func (c *ClientImpl) LoadDocument(ctx context.Context, collection, documentID string) (*Document, error) {
	document, err := c.service.Projects.Databases.Documents.
		Get(c.documentName(collection, documentID)).Context(ctx).Do()
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrDocumentNotFound, collection, documentID)
		}

		return nil, fmt.Errorf("failed to load document '%s': %w", documentID, err)
	}

	return &Document{ID: path.Base(document.Name), Fields: DecodeFields(document.Fields)}, nil
}

// SaveDocument upserts one document, replacing all of its fields.
func (c *ClientImpl) SaveDocument(ctx context.Context, collection, documentID string, fields map[string]any) error {
	encoded, err := EncodeFields(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document '%s': %w", documentID, err)
	}

	_, err = c.service.Projects.Databases.Documents.
		Patch(c.documentName(collection, documentID), &firestorev1.Document{Fields: encoded}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to save document '%s': %w", documentID, err)
	}

	return nil
}

// documentName renders the full resource name of a document.
func (c *ClientImpl) documentName(collection, documentID string) string {
	return fmt.Sprintf("%s/%s/%s", c.documentsRoot, collection, documentID)
}

// pauseBetweenAttempts sleeps for attempt × backoff, honoring cancellation.
func (c *ClientImpl) pauseBetweenAttempts(ctx context.Context, attempt int) error {
	timer := time.NewTimer(time.Duration(attempt) * c.backoffUnit)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// checkBatchStatuses fails the batch when any write came back non-OK.
func checkBatchStatuses(response *firestorev1.BatchWriteResponse) error {
	for index, status := range response.Status {
		if status != nil && status.Code != 0 {
			return fmt.Errorf("%w: write %d failed with code %d: %s",
				ErrBatchWriteFailed, index, status.Code, status.Message)
		}
	}

	return nil
}

// isNotFoundError reports whether the API answered 404.
func isNotFoundError(err error) bool {
	var apiErr *googleapi.Error

	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

// isRetryableCloudError reports whether a batch is worth retrying: transport
// errors and server-side 5xx qualify, everything else fails fast.
func isRetryableCloudError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code >= http.StatusInternalServerError
	}

	return true
}
