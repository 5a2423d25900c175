package firestore

import "errors"

// Static error definitions for better error handling.
var (
	// ErrDocumentNotFound indicates that the requested document does not exist.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrBatchTooLarge indicates that a batch exceeds the 500-write API limit.
	ErrBatchTooLarge = errors.New("batch exceeds the 500 write limit")
	// ErrUnsupportedValue indicates a Go value the wire codec cannot represent.
	ErrUnsupportedValue = errors.New("unsupported value type")
	// ErrBatchWriteFailed indicates that the server rejected writes in a batch.
	ErrBatchWriteFailed = errors.New("batch write rejected")
)
