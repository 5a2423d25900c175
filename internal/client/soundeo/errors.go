package soundeo

import "errors"

// Static error definitions for better error handling.
var (
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrTrackNotFound indicates that the requested track does not exist in the catalog.
	ErrTrackNotFound = errors.New("track not found")
	// ErrSessionExpired indicates that the catalog rejected the session cookie.
	ErrSessionExpired = errors.New("catalog session expired, run 'dj-wizard login'")
	// ErrNotDownloadable indicates that the catalog refused to grant a download URL.
	ErrNotDownloadable = errors.New("track is not downloadable")
	// ErrRateExhausted indicates that the account's download budget is spent.
	ErrRateExhausted = errors.New("download budget exhausted")
	// ErrUnexpectedResponseFormat indicates that a catalog response did not match the known shape.
	ErrUnexpectedResponseFormat = errors.New("unexpected catalog response format")
	// ErrDownloadsCounterNotFound indicates that the downloads counter widget is missing,
	// which almost always means the session is no longer authenticated.
	ErrDownloadsCounterNotFound = errors.New("downloads counter not found on page")
)
