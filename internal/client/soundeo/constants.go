package soundeo

const (
	// trackStatusURIFormat is the URI path for the track metadata endpoint.
	trackStatusURIFormat = "tracks/status/%s"
	// downloadGrantURIFormat is the URI path for the download grant endpoint.
	// The trailing 3 selects the AIFF format slot.
	downloadGrantURIFormat = "download/%s/3"
	// searchURI is the URI path for the catalog search page.
	searchURI = "search"
	// searchQueryParameter carries the search term.
	searchQueryParameter = "q"
)

const (
	// metadataCacheSize defines the maximum number of track metadata entries to cache.
	// Genre walks inspect every track on every page, so this keeps repeated walks
	// over the same pages from hammering the status endpoint.
	metadataCacheSize = 10000
	// searchCacheSize defines the maximum number of search results to cache.
	// Spotify pairing re-runs the same queries when a playlist is synced twice.
	searchCacheSize = 2000
)

const (
	// headerXRequestedWith marks requests as AJAX so the catalog answers JSON.
	headerXRequestedWith = "X-Requested-With"
	// xmlHTTPRequestValue is the value the catalog expects for AJAX requests.
	xmlHTTPRequestValue = "XMLHttpRequest"
	// ajaxAcceptValue mirrors the Accept header the catalog web UI sends.
	ajaxAcceptValue = "application/json, text/javascript, */*; q=0.01"
)
