// Package utils provides small helpers shared across the application:
// filename sanitization for catalog attachments, polite random pauses,
// URL-list file reading, named regexp group extraction, and content type
// checks for the debug transport.
package utils
