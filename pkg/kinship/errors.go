package kinship

import "errors"

var (
	// ErrNotFound is returned when a query's root individual does not exist.
	ErrNotFound = errors.New("individual not found")

	// ErrInvalidLimit is returned by [BuildHourglass] for negative bounds.
	ErrInvalidLimit = errors.New("generation limit must not be negative")

	// ErrUnknownDedupMode is returned by [ParseDedupMode].
	ErrUnknownDedupMode = errors.New("unknown dedup mode")
)
