// Package soundeo provides a client for interacting with the Soundeo catalog.
// The catalog speaks a mix of AJAX JSON endpoints (track status, download
// grants) and server-rendered HTML (listing pages, the account header), all
// authenticated by an opaque session cookie pair.
package soundeo

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
	http_transport "github.com/matiasbn/dj-wizard/internal/transport/http"
	"github.com/matiasbn/dj-wizard/internal/utils"
)

// Client defines the interface for interacting with the Soundeo catalog.
type Client interface {
	// CheckRemainingDownloads loads the account header and scrapes the
	// download budget counters. It also absorbs any rotated session cookies.
	CheckRemainingDownloads(ctx context.Context) (*RemainingDownloads, error)
	// FetchListing fetches a listing or search results page and returns the
	// track ids in display order.
	FetchListing(ctx context.Context, listingURL string) ([]string, error)
	// GetBaseURL returns the base URL of the catalog.
	GetBaseURL() string
	// GetDownloadURL asks the catalog to grant a download and returns the
	// signed file URL. Granting consumes one unit of the account budget.
	GetDownloadURL(ctx context.Context, trackID string) (string, error)
	// GetTrackInfo retrieves the catalog metadata of a track.
	GetTrackInfo(ctx context.Context, trackID string) (*TrackMetadata, error)
	// ProbePageExists reports whether a listing page exists (404 means no).
	ProbePageExists(ctx context.Context, pageURL string) (bool, error)
	// Search runs a catalog search and returns the matching track ids
	// in relevance order.
	Search(ctx context.Context, term string) ([]string, error)
	// StreamDownload opens the byte stream of a granted download URL.
	StreamDownload(ctx context.Context, downloadURL string) (*DownloadResult, error)
}

// ClientImpl implements the Client interface for interacting with the Soundeo catalog.
type ClientImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// baseURL is the base URL for catalog requests.
	baseURL string
	// httpClient is the HTTP client for API and page requests.
	httpClient *http.Client
	// streamClient is the HTTP client for file downloads. It carries no
	// overall timeout because large files legitimately take minutes.
	streamClient *http.Client
	// sessionMu guards sessionCookie. Budget refreshes take the write lock
	// because the catalog rotates cookie state on authenticated page loads.
	sessionMu sync.RWMutex
	// sessionCookie is the opaque Cookie header value of the login session.
	sessionCookie string
	// metadataCache caches track metadata to avoid refetching the same tracks
	// across genre walk pages and download phases.
	metadataCache *lru.Cache[string, *TrackMetadata]
	// searchCache caches search results keyed by the search term.
	searchCache *lru.Cache[string, []string]
}

// NewClient creates and returns a new instance of ClientImpl.
func NewClient(cfg *config.Config) (Client, error) {
	baseURL, err := url.Parse(cfg.SoundeoBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog URL: %w", err)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = http_transport.DefaultUserAgent
	}

	// The connect timeout lives on the dialer; the page client adds an overall
	// request deadline below, while the stream client stays unbounded.
	baseTransport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: http_transport.DefaultConnectTimeout,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConnsPerHost: http_transport.DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     http_transport.DefaultIdleConnTimeout,
	}

	// Both clients share one transport stack: user agent injection over
	// gzip/brotli decoding over request logging.
	transport := http_transport.NewUserAgentInjector(
		http_transport.NewAcceptEncodingDecoder(
			http_transport.NewLogTransport(baseTransport, 0)),
		utils.NewStaticUserAgentProvider(userAgent))

	metadataCache, err := lru.New[string, *TrackMetadata](metadataCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata cache: %w", err)
	}

	searchCache, err := lru.New[string, []string](searchCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create search cache: %w", err)
	}

	client := &ClientImpl{
		cfg:     cfg,
		baseURL: baseURL.String(),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   http_transport.DefaultTimeout,
		},
		streamClient: &http.Client{
			Transport: transport,
		},
		sessionCookie: cfg.SessionCookie,
		metadataCache: metadataCache,
		searchCache:   searchCache,
	}

	return client, nil
}

// CheckRemainingDownloads loads the account header and scrapes the download
// budget counters. The whole call holds the session write lock: the catalog
// answers authenticated page loads with a rotated snda[data] cookie, and two
// concurrent rotations would clobber each other.
func (c *ClientImpl) CheckRemainingDownloads(ctx context.Context) (*RemainingDownloads, error) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	request.Header.Set("Cookie", c.sessionCookie)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	c.updateSessionFromResponse(response)

	page, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read account page: %w", err)
	}

	remaining, err := parseRemainingDownloads(string(page))
	if err != nil {
		// The widget only renders for logged-in sessions.
		return nil, fmt.Errorf("%w: %s", ErrSessionExpired, err)
	}

	logger.Debugf(ctx, "Remaining downloads: %d main + %d bonus", remaining.Main, remaining.Bonus)

	return remaining, nil
}

// FetchListing fetches a listing or search results page and returns the track
// ids in display order.
func (c *ClientImpl) FetchListing(ctx context.Context, listingURL string) ([]string, error) {
	page, statusCode, err := c.fetchPage(ctx, listingURL)
	if err != nil {
		return nil, err
	}

	if statusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrTrackNotFound, listingURL)
	}

	if statusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, statusCode)
	}

	return parseListingTrackIDs(page), nil
}

// GetBaseURL returns the base URL of the catalog.
func (c *ClientImpl) GetBaseURL() string {
	return c.baseURL
}

// GetDownloadURL asks the catalog to grant a download and returns the signed
// file URL. The three refusal shapes are mapped to distinct errors: a missing
// session to ErrSessionExpired, a zeroed counter in the returned header
// fragment to ErrRateExhausted, anything else to ErrNotDownloadable.
func (c *ClientImpl) GetDownloadURL(ctx context.Context, trackID string) (string, error) {
	grant, err := fetchAPI[downloadGrantResponse](c, ctx, fmt.Sprintf(downloadGrantURIFormat, trackID))
	if err != nil {
		return "", err
	}

	if redirect := grant.JSActions.Redirect; redirect != nil && redirect.URL != "" {
		return redirect.URL, nil
	}

	if grant.Header != "" {
		if remaining, parseErr := parseRemainingDownloads(grant.Header); parseErr == nil && remaining.Total() == 0 {
			return "", ErrRateExhausted
		}
	}

	if message := grant.JSActions.ShowMessage; message != nil && message.Message != "" {
		return "", fmt.Errorf("%w: %s", ErrNotDownloadable, message.Message)
	}

	return "", ErrNotDownloadable
}

// GetTrackInfo retrieves the catalog metadata of a track.
// Uses an LRU cache to avoid redundant API calls for the same tracks.
func (c *ClientImpl) GetTrackInfo(ctx context.Context, trackID string) (*TrackMetadata, error) {
	if cached, ok := c.metadataCache.Get(trackID); ok {
		logger.Debugf(ctx, "Track metadata cache hit for ID: %s", trackID)

		return cached, nil
	}

	status, err := fetchAPI[trackStatusResponse](c, ctx, fmt.Sprintf(trackStatusURIFormat, trackID))
	if err != nil {
		return nil, err
	}

	if status.Track == nil {
		return nil, fmt.Errorf("%w: no track object for id %s", ErrUnexpectedResponseFormat, trackID)
	}

	c.metadataCache.Add(trackID, status.Track)

	return status.Track, nil
}

// ProbePageExists reports whether a listing page exists. The genre walker
// uses it to find the last page of a listing: the catalog answers 404 past
// the end instead of an empty page.
func (c *ClientImpl) ProbePageExists(ctx context.Context, pageURL string) (bool, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return false, err
	}

	request.Header.Set("Cookie", c.session())

	response, err := c.httpClient.Do(request)
	if err != nil {
		return false, err
	}

	defer response.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, response.Body)

	switch response.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}
}

// Search runs a catalog search and returns the matching track ids in
// relevance order. Results are served from the search cache when possible.
func (c *ClientImpl) Search(ctx context.Context, term string) ([]string, error) {
	normalized := strings.TrimSpace(term)

	if cached, ok := c.searchCache.Get(normalized); ok {
		logger.Debugf(ctx, "Search cache hit for term: %s", normalized)

		return cached, nil
	}

	searchURL, err := url.JoinPath(c.baseURL, searchURI)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set(searchQueryParameter, normalized)

	trackIDs, err := c.FetchListing(ctx, searchURL+"?"+query.Encode())
	if err != nil {
		return nil, err
	}

	c.searchCache.Add(normalized, trackIDs)

	return trackIDs, nil
}

// StreamDownload opens the byte stream of a granted download URL.
func (c *ClientImpl) StreamDownload(ctx context.Context, downloadURL string) (*DownloadResult, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	request.Header.Set("Cookie", c.session())

	response, err := c.streamClient.Do(request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		response.Body.Close() //nolint:gosec // Error on close is not critical here.

		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return &DownloadResult{
		Filename:   filenameFromResponse(response),
		TotalBytes: response.ContentLength,
		Body:       response.Body,
	}, nil
}

// filenameFromResponse extracts the suggested filename from Content-Disposition.
func filenameFromResponse(response *http.Response) string {
	disposition := response.Header.Get("Content-Disposition")
	if disposition == "" {
		return ""
	}

	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}

	return params["filename"]
}

// fetchPage GETs an HTML page with the session cookie and returns its body
// and status code. A 404 is not an error at this level because listing
// probes rely on it.
func (c *ClientImpl) fetchPage(ctx context.Context, pageURL string) (string, int, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", 0, err
	}

	request.Header.Set("Cookie", c.session())

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", 0, err
	}

	defer response.Body.Close()

	page, err := io.ReadAll(response.Body)
	if err != nil {
		return "", response.StatusCode, fmt.Errorf("failed to read page: %w", err)
	}

	return string(page), response.StatusCode, nil
}

//nolint:revive // Go doesn't allow struct methods to be generic.
func fetchAPI[T any](c *ClientImpl, ctx context.Context, uri string) (*T, error) {
	route, err := url.JoinPath(c.baseURL, uri)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, route, http.NoBody)
	if err != nil {
		return nil, err
	}

	request.Header.Set("Cookie", c.session())
	request.Header.Set("Accept", ajaxAcceptValue)
	request.Header.Set(headerXRequestedWith, xmlHTTPRequestValue)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()

	switch response.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrSessionExpired
	case http.StatusNotFound:
		return nil, ErrTrackNotFound
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	var result T
	if err = json.NewDecoder(response.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedResponseFormat, err)
	}

	return &result, nil
}
