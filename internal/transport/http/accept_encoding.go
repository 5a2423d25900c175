package http

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

const (
	// acceptEncodingHeader is the HTTP header advertising supported response encodings.
	acceptEncodingHeader = "Accept-Encoding"

	// contentEncodingHeader is the HTTP header naming the encoding of the response body.
	contentEncodingHeader = "Content-Encoding"

	// encodingGzip and encodingBrotli are the content encodings this transport decodes.
	encodingGzip   = "gzip"
	encodingBrotli = "br"
)

// AcceptEncodingDecoder is a custom http.RoundTripper that advertises gzip and brotli
// support and transparently decodes the response body.
// The standard transport negotiates only gzip and skips negotiation entirely when the
// request carries a Range header, which resumable downloads do.
type AcceptEncodingDecoder struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
}

// NewAcceptEncodingDecoder creates and returns a new instance of AcceptEncodingDecoder.
func NewAcceptEncodingDecoder(next http.RoundTripper) http.RoundTripper {
	return &AcceptEncodingDecoder{next: next}
}

// RoundTrip executes a single HTTP transaction and decodes gzip or brotli response bodies.
// It implements the http.RoundTripper interface.
func (t *AcceptEncodingDecoder) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(acceptEncodingHeader) == "" {
		req.Header.Set(acceptEncodingHeader, encodingGzip+", "+encodingBrotli)
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(resp.Header.Get(contentEncodingHeader)) {
	case encodingBrotli:
		resp.Body = &decodedBody{reader: brotli.NewReader(resp.Body), body: resp.Body}
	case encodingGzip:
		gzipReader, gzipErr := gzip.NewReader(resp.Body)
		if gzipErr != nil {
			//nolint:errcheck // The response is already unusable.
			resp.Body.Close()

			return nil, gzipErr
		}

		resp.Body = &decodedBody{reader: gzipReader, body: resp.Body}
	default:
		return resp, nil
	}

	// The decoded length is unknown.
	resp.Header.Del(contentEncodingHeader)
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1

	return resp, nil
}

// decodedBody streams the decoded response while closing the original network body.
type decodedBody struct {
	// reader yields the decoded bytes.
	reader io.Reader
	// body is the original response body.
	body io.ReadCloser
}

// Read implements io.Reader over the decoded stream.
func (b *decodedBody) Read(p []byte) (int, error) {
	return b.reader.Read(p)
}

// Close closes the original response body.
func (b *decodedBody) Close() error {
	return b.body.Close()
}
