// Package apperr holds the error kinds the core reports to its callers.
// Wrap them with context; match with errors.Is.
package apperr

import "errors"

var (
	// ErrNotFound means the requested entity id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidReference means a collection_id does not resolve to an existing collection.
	ErrInvalidReference = errors.New("collection not found")
)
