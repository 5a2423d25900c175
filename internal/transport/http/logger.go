package http

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/utils"
)

// LogTransport is an http.RoundTripper that dumps requests and responses to
// the debug log. The session cookie is a live credential and the catalog
// rotates it on authenticated loads, so cookie-bearing headers are redacted
// before anything reaches the log.
type LogTransport struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// maxLogLength is the maximum length of logged request/response data.
	maxLogLength uint64
}

// Static error definitions for better error handling.
var (
	// ErrNilRequest indicates that the HTTP request is nil.
	ErrNilRequest = errors.New("request is nil")

	// redactedHeaders carry session or token material and never appear in
	// dumps verbatim.
	//nolint:gochecknoglobals // Immutable list used as a constant.
	redactedHeaders = []string{"Cookie", "Set-Cookie", "Authorization"}
)

// redactedPlaceholder replaces the value of every redacted header.
const redactedPlaceholder = "[redacted]"

// NewLogTransport creates and returns a new instance of LogTransport.
// If maxLogLength is less than or equal to 0, it defaults to config.DefaultMaxLogLength.
func NewLogTransport(next http.RoundTripper, maxLogLength uint64) http.RoundTripper {
	if maxLogLength <= 0 {
		maxLogLength = config.DefaultMaxLogLength
	}

	return &LogTransport{
		next:         next,
		maxLogLength: maxLogLength,
	}
}

// RoundTrip executes a single HTTP transaction and logs the request and response.
// It implements the http.RoundTripper interface.
func (t *LogTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	// Skip the dump work entirely below debug level.
	if !logger.IsDebugLevel() {
		return t.next.RoundTrip(req)
	}

	ctx := req.Context()
	requestDump := t.dumpRequest(req)
	startTime := time.Now()

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(startTime)

	if err != nil {
		logger.Debugf(ctx, "Request failed: %s %s | Error: %v", req.Method, req.URL.String(), err)

		return nil, err
	}

	logger.Debugf(ctx, "%s %s [%d] %s\nRequest: %s\nResponse: %s",
		req.Method, req.URL.Path, resp.StatusCode, duration, requestDump, t.dumpResponse(resp))

	return resp, nil
}

// dumpRequest renders the request with its body, credentials masked.
func (t *LogTransport) dumpRequest(req *http.Request) string {
	masked := req.Clone(req.Context())
	redactHeader(masked.Header)

	// The clone shares the original body; leave it to the real round trip
	// and dump headers only.
	masked.Body = nil

	dump, err := httputil.DumpRequest(masked, false)
	if err != nil {
		return err.Error()
	}

	return t.truncate(dump)
}

// dumpResponse renders the response, including the body only when the
// content type says it is textual.
func (t *LogTransport) dumpResponse(resp *http.Response) string {
	withBody := utils.IsTextContentType(resp.Header.Get("Content-Type"))

	originalHeader := resp.Header
	resp.Header = originalHeader.Clone()
	redactHeader(resp.Header)

	dump, err := httputil.DumpResponse(resp, withBody)

	resp.Header = originalHeader

	if err != nil {
		return err.Error()
	}

	return t.truncate(dump)
}

// redactHeader masks credential-bearing header values in place.
func redactHeader(header http.Header) {
	for _, name := range redactedHeaders {
		if values := header.Values(name); len(values) > 0 {
			header.Set(name, redactedPlaceholder)
		}
	}
}

func (t *LogTransport) truncate(data []byte) string {
	if uint64(len(data)) > t.maxLogLength {
		return string(data[:t.maxLogLength]) + "... [truncated]"
	}

	return string(data)
}
