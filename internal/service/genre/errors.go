package genre

import "errors"

// Static error definitions for better error handling.
var (
	// ErrGenreNotTracked indicates that the genre id is not registered for scanning.
	ErrGenreNotTracked = errors.New("genre is not tracked")
	// ErrNoTrackedGenres indicates that no genre is registered for scanning.
	ErrNoTrackedGenres = errors.New("no genres are tracked")
)
