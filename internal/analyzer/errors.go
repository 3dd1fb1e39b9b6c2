package analyzer

import "errors"

// Sentinel errors for the analysis pipeline. Handlers map these onto HTTP
// status codes with errors.Is, so wrapped variants still resolve correctly.
var (
	// ErrInvalidInput means a required text field was empty or missing
	// before any external call was made
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtractionFailed means the AI provider call failed or returned
	// data that could not be parsed
	ErrExtractionFailed = errors.New("keyword extraction failed")

	// ErrMissingSource means tailoring was requested against a nonexistent
	// analysis or one with no resume content to copy
	ErrMissingSource = errors.New("missing tailoring source")

	// ErrPersistenceFailed means the storage layer rejected a write
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrNotFound means the requested record does not exist
	ErrNotFound = errors.New("record not found")
)
