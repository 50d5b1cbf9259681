package repo_errors

import "errors"

var (
	ErrNotFound = errors.New("requested row not found")

	// ErrVersionConflict reports that a compare-and-swap write lost to a
	// concurrent writer: the auction row's version no longer matched the
	// version the caller read. Safe to retry once with refreshed state.
	ErrVersionConflict = errors.New("auction version conflict")
)
