// Package backup ships the persistent state snapshot to off-site storage.
package backup

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/store"
)

// BlobSink stores a named blob and returns its content address.
type BlobSink interface {
	Put(ctx context.Context, filename string, content io.Reader) (string, error)
}

// Service uploads the state snapshot to a blob sink.
type Service interface {
	// UploadSnapshot ships the whole snapshot file to the blob sink
	// and returns the content hash reported by the sink.
	UploadSnapshot(ctx context.Context) (string, error)
}

// ServiceImpl implements Service on top of a BlobSink.
type ServiceImpl struct {
	sink  BlobSink
	store *store.Store

	// newProgressBar builds the upload progress tracker.
	// Tests swap it for a silent variant.
	newProgressBar func(maxBytes int64, description ...string) *progressbar.ProgressBar
}

// NewService creates a snapshot uploader backed by the given sink.
func NewService(sink BlobSink, stateStore *store.Store) Service {
	return &ServiceImpl{
		sink:           sink,
		store:          stateStore,
		newProgressBar: progressbar.DefaultBytes,
	}
}

// UploadSnapshot implements Service.
func (s *ServiceImpl) UploadSnapshot(ctx context.Context) (string, error) {
	payload, err := s.store.SnapshotBytes()
	if err != nil {
		return "", fmt.Errorf("failed to serialize the state snapshot: %w", err)
	}

	filename := filepath.Base(s.store.Path())

	logger.Infof(ctx, "Uploading '%s' (%s)...", filename, humanize.Bytes(uint64(len(payload))))

	bar := s.newProgressBar(int64(len(payload)), "Uploading "+filename)

	hash, err := s.sink.Put(ctx, filename, io.TeeReader(bytes.NewReader(payload), bar))
	if err != nil {
		return "", fmt.Errorf("failed to upload '%s': %w", filename, err)
	}

	if finishErr := bar.Finish(); finishErr != nil {
		logger.Debugf(ctx, "Failed to finish the progress bar: %v", finishErr)
	}

	logger.Infof(ctx, "Uploaded '%s', content hash: %s", filename, hash)

	return hash, nil
}
