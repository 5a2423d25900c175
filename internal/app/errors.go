package app

import "errors"

// Static error definitions for better error handling.
var (
	// ErrMalformedSetPair indicates a --set value that is not formatted as key=value.
	ErrMalformedSetPair = errors.New("malformed --set value, expected key=value")
	// ErrUnknownPriority indicates a priority name outside the high/normal/low ladder.
	ErrUnknownPriority = errors.New("unknown priority, expected high, normal, or low")
)
