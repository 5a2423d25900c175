package genre

const (
	// maxEmptyPages is how many consecutive pages may enqueue nothing before
	// the walk stops early.
	maxEmptyPages = 3

	// probePageCap bounds the last-page probe against a catalog that keeps
	// answering 200 forever.
	probePageCap = 500

	// dateLayout is the catalog's release date format.
	dateLayout = "2006-01-02"

	// defaultWalkStart opens the date range for genres that have never been
	// walked. The catalog needs a concrete lower bound in the time filter.
	defaultWalkStart = "2000-01-01"

	// listingPageURLFormat is the filtered listing page the scheduler walks:
	// base, genre id, range start, range end, page number.
	listingPageURLFormat = "%s/list/tracks?availableFilter=1&genreFilter=%d&timeFilter=r_%s_%s&page=%d"
)

// WalkSummary reports the outcome of one genre walk.
type WalkSummary struct {
	// GenreID is the walked genre's catalog id.
	GenreID uint32
	// GenreName is the walked genre's display name.
	GenreName string
	// PagesVisited counts listing pages actually scraped.
	PagesVisited int
	// TracksSeen counts tracks whose metadata was inspected.
	TracksSeen int
	// TracksEnqueued counts tracks added to the download queue.
	TracksEnqueued int
	// Watermark is the genre's last-checked date after the walk.
	Watermark string
}
