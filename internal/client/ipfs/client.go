// Package ipfs uploads blobs to an IPFS node over its HTTP RPC API.
package ipfs

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/matiasbn/dj-wizard/internal/config"
)

// Static error definitions for better error handling.
var (
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrMissingHash indicates the node's add response carried no content hash.
	ErrMissingHash = errors.New("add response carried no content hash")
)

// addEndpointPath is the node's file-add RPC route.
const addEndpointPath = "/api/v0/add"

// Client adds blobs to an IPFS node.
type Client interface {
	// Put uploads the reader's content under the given filename and returns
	// the reported content hash.
	Put(ctx context.Context, filename string, content io.Reader) (string, error)
}

// ClientImpl implements the Client interface over the node's HTTP RPC API.
type ClientImpl struct {
	// addURL is the fully rendered add endpoint.
	addURL string
	// httpClient carries no overall timeout because large snapshots
	// legitimately take a while; the context cancels hung uploads.
	httpClient *http.Client
}

// addResponse is one JSON object of the node's add response stream.
type addResponse struct {
	// Name is the filename the node recorded.
	Name string `json:"Name"`
	// Hash is the content hash of the added file.
	Hash string `json:"Hash"`
	// Size is the stored size in bytes, rendered as a string by the node.
	Size string `json:"Size"`
}

// NewClient creates a blob client bound to the configured IPFS node.
func NewClient(cfg *config.Config) Client {
	return &ClientImpl{
		addURL:     strings.TrimRight(cfg.IPFSAPIURL, "/") + addEndpointPath,
		httpClient: &http.Client{},
	}
}

// Put uploads the reader's content under the given filename and returns the
// reported content hash. The multipart body is streamed, so the blob never
// sits in memory twice.
func (c *ClientImpl) Put(ctx context.Context, filename string, content io.Reader) (string, error) {
	pipeReader, pipeWriter := io.Pipe()
	form := multipart.NewWriter(pipeWriter)

	go func() {
		part, err := form.CreateFormFile("file", filename)
		if err != nil {
			pipeWriter.CloseWithError(err)

			return
		}

		if _, err = io.Copy(part, content); err != nil {
			pipeWriter.CloseWithError(err)

			return
		}

		pipeWriter.CloseWithError(form.Close())
	}()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.addURL, pipeReader)
	if err != nil {
		return "", fmt.Errorf("failed to create the add request: %w", err)
	}

	request.Header.Set("Content-Type", form.FormDataContentType())

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("failed to reach the IPFS node: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return lastReportedHash(response.Body)
}

// lastReportedHash drains the add response stream and returns the final
// hash. Nodes emit one JSON object per entry (plus progress objects when
// enabled); the last hash-bearing object names the stored blob.
func lastReportedHash(body io.Reader) (string, error) {
	decoder := json.NewDecoder(body)

	hash := ""

	for {
		var entry addResponse

		err := decoder.Decode(&entry)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("failed to decode the add response: %w", err)
		}

		if entry.Hash != "" {
			hash = entry.Hash
		}
	}

	if hash == "" {
		return "", ErrMissingHash
	}

	return hash, nil
}
