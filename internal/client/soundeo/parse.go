package soundeo

import (
	"regexp"
	"strconv"
	"strings"
)

// The catalog has no JSON API for listings, so listing pages, search results
// and the account header are scraped with narrow patterns. The markup around
// these widgets has been stable for years; anything fancier than a regexp
// would be dead weight against server-rendered fragments this small.

var (
	// trackAnchorPattern matches the download anchor rendered once per track row.
	trackAnchorPattern = regexp.MustCompile(`<a\b[^>]*\btrack-download-lnk\b[^>]*>`)
	// trackIDAttributePattern extracts the track id attribute from an anchor tag.
	trackIDAttributePattern = regexp.MustCompile(`data-track-id="(?P<id>\d+)"`)
	// counterValuePattern extracts the numeric text of a counter span.
	counterValuePattern = regexp.MustCompile(`>\s*(?P<value>\d+)\s*<`)
	// resetTitlePattern extracts the "will be reset in ..." tooltip.
	resetTitlePattern = regexp.MustCompile(`title="(?P<eta>[^"]*reset[^"]*)"`)
	// trackPageURLPattern extracts the trailing numeric id of a track page URL,
	// e.g. https://soundeo.com/tracks/some-title-9189456.
	trackPageURLPattern = regexp.MustCompile(`(?i)/tracks?/(?:[^/?#]*-)?(?P<id>\d+)(?:[/?#]|$)`)
)

// downloadsCounterMarker anchors the downloads widget in the account header.
const downloadsCounterMarker = `id="span-downloads"`

// downloadsCounterWindow bounds how far past the marker the scraper looks.
// The widget is two spans and a separator; 400 bytes is generous.
const downloadsCounterWindow = 400

// parseListingTrackIDs returns the track ids of a listing page in display
// order, without duplicates.
func parseListingTrackIDs(html string) []string {
	anchors := trackAnchorPattern.FindAllString(html, -1)

	seen := make(map[string]struct{}, len(anchors))
	trackIDs := make([]string, 0, len(anchors))

	for _, anchor := range anchors {
		match := trackIDAttributePattern.FindStringSubmatch(anchor)
		if match == nil {
			continue
		}

		trackID := match[1]
		if _, isDuplicate := seen[trackID]; isDuplicate {
			continue
		}

		seen[trackID] = struct{}{}
		trackIDs = append(trackIDs, trackID)
	}

	return trackIDs
}

// parseRemainingDownloads scrapes the downloads counter widget. The widget
// holds the main allowance and the bonus allowance as two nested spans, with
// the reset time in a tooltip:
//
//	<span id="span-downloads" title="... will be reset in 11 hours">
//	    <span>150</span> + <span>3</span>
//	</span>
//
// Nested spans rule out a single balanced pattern, so the scraper takes a
// bounded window after the id marker and reads the first two counters in it.
func parseRemainingDownloads(html string) (*RemainingDownloads, error) {
	start := strings.Index(html, downloadsCounterMarker)
	if start < 0 {
		return nil, ErrDownloadsCounterNotFound
	}

	end := start + downloadsCounterWindow
	if end > len(html) {
		end = len(html)
	}

	window := html[start:end]

	counters := counterValuePattern.FindAllStringSubmatch(window, 2)
	if len(counters) < 2 {
		return nil, ErrDownloadsCounterNotFound
	}

	main, err := strconv.ParseUint(counters[0][1], 10, 32)
	if err != nil {
		return nil, ErrDownloadsCounterNotFound
	}

	bonus, err := strconv.ParseUint(counters[1][1], 10, 32)
	if err != nil {
		return nil, ErrDownloadsCounterNotFound
	}

	remaining := &RemainingDownloads{
		Main:  uint32(main),
		Bonus: uint32(bonus),
	}

	if match := resetTitlePattern.FindStringSubmatch(window); match != nil {
		remaining.ResetETA = match[1]
	}

	return remaining, nil
}

// ExtractTrackID pulls the numeric track id out of a catalog track page URL.
// It returns false for listing URLs and anything else without a trailing id.
func ExtractTrackID(rawURL string) (string, bool) {
	match := trackPageURLPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return "", false
	}

	return match[1], true
}
