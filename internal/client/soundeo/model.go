package soundeo

import (
	"io"
	"strconv"
)

// TrackMetadata is the catalog's view of a single track, as returned by the
// track status endpoint.
type TrackMetadata struct {
	// ID is the numeric catalog track id.
	ID int64 `json:"id"`
	// Title is the display title, usually "Artist - Name (Mix)".
	Title string `json:"title"`
	// TrackURL is the canonical catalog page of the track.
	TrackURL string `json:"track_url"`
	// Cover is the cover art URL.
	Cover string `json:"cover"`
	// Release is the release name the track belongs to.
	Release string `json:"release"`
	// Label is the publishing label.
	Label string `json:"label"`
	// Genre is the catalog genre name.
	Genre string `json:"genre"`
	// Date is the release date in ISO "YYYY-MM-DD" form.
	Date string `json:"date"`
	// BPM is the tempo reported by the catalog.
	BPM uint32 `json:"bpm"`
	// Key is the musical key reported by the catalog.
	Key string `json:"key"`
	// Size is the human-readable file size reported by the catalog.
	Size string `json:"size"`
	// Downloadable reports whether the catalog offers the track for download.
	Downloadable bool `json:"downloadable"`
	// Downloaded reports whether the account has downloaded the track before.
	Downloaded bool `json:"downloaded"`
	// Stem reports whether this is a multi-channel STEM product, which the
	// grant endpoint refuses for regular accounts.
	Stem bool `json:"stem"`
}

// IDString renders the numeric track id the way the queue and the cloud
// mirror key their documents.
func (m *TrackMetadata) IDString() string {
	return strconv.FormatInt(m.ID, 10)
}

// RemainingDownloads is the account's download budget as scraped from the
// downloads counter widget.
type RemainingDownloads struct {
	// Main is the regular daily allowance.
	Main uint32
	// Bonus is the extra allowance granted by promotions.
	Bonus uint32
	// ResetETA is the human-readable time until the allowance resets,
	// taken from the widget's title attribute. May be empty.
	ResetETA string
}

// Total returns the usable budget.
func (r *RemainingDownloads) Total() uint32 {
	return r.Main + r.Bonus
}

// DownloadResult is an open byte stream for a granted download.
// The caller owns Body and must close it.
type DownloadResult struct {
	// Filename is the name suggested by the Content-Disposition header.
	// Empty when the server did not send one.
	Filename string
	// TotalBytes is the Content-Length, or -1 when unknown.
	TotalBytes int64
	// Body streams the file content.
	Body io.ReadCloser
}

// trackStatusResponse is the JSON envelope of the track status endpoint.
type trackStatusResponse struct {
	Track *TrackMetadata `json:"track"`
}

// downloadGrantResponse is the JSON envelope of the download grant endpoint.
// On success the catalog answers with a client-side redirect action pointing
// at the signed file URL; on refusal it answers with a message action and a
// re-rendered header fragment carrying the downloads counter.
type downloadGrantResponse struct {
	JSActions grantActions `json:"jsActions"`
	Header    string       `json:"header"`
}

// grantActions is the jsActions object of a download grant response.
type grantActions struct {
	Redirect    *redirectAction `json:"redirect"`
	ShowMessage *messageAction  `json:"showMessage"`
}

// redirectAction carries the signed download URL.
type redirectAction struct {
	URL string `json:"url"`
}

// messageAction carries the human-readable refusal reason.
type messageAction struct {
	Message string `json:"message"`
}
