package mirror

import (
	clientfirestore "github.com/matiasbn/dj-wizard/internal/client/firestore"
)

// Cloud collection names under the user's document tree.
const (
	// CollectionTracks holds one document per locally known track record.
	CollectionTracks = "soundeo_tracks"
	// CollectionQueue holds one document per pending queue entry.
	CollectionQueue = "queued_tracks"
	// CollectionAvailable holds one document per granted-but-untransferred track.
	CollectionAvailable = "available_tracks"
	// CollectionURLList holds one document per pending listing URL.
	CollectionURLList = "url_list"
	// CollectionData holds the small single-document sections.
	CollectionData = "dj_wizard_data"
)

// Documents inside CollectionData.
const (
	// DataDocSpotify carries the paired playlists.
	DataDocSpotify = "spotify"
	// DataDocGenres carries the tracked genres and their watermarks.
	DataDocGenres = "genre_tracker"
	// DataDocArtists carries the favorite-artist sets keyed by genre id.
	DataDocArtists = "artists"
	// DataDocCombined carries the whole snapshot as one legacy document.
	DataDocCombined = "main"
)

// migrationBatchSize is how many documents travel in one batch write. Well
// under the API's 500-write limit so a lost batch costs little progress.
const migrationBatchSize = 20

// migrationBatch is one unit of work for the upload pool.
type migrationBatch struct {
	// id tags the batch in log lines and worker status.
	id string
	// documents are the encoded cloud documents of the batch.
	documents []clientfirestore.Document
	// documentIDs are the store ids to mark mirrored when the batch lands.
	documentIDs []string
}
