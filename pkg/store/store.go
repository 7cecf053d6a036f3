// Package store defines the document-store contract consumed by the
// gallery loader, together with the photo record model shared by all
// backends (HTTP, Redis, DynamoDB).
package store

import (
	"context"
	"errors"
)

// Common errors returned by store implementations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
)

// PhotoRecord is one photo document from the remote store.
type PhotoRecord struct {
	// ID is the opaque record identifier, immutable once obtained.
	ID string `json:"id"`

	// URL is the full-size image location.
	URL string `json:"url"`

	// AltDescription is the accessibility text for the image.
	AltDescription string `json:"alt_description"`

	// Index is the record's position in the session's shuffled order.
	// It is assigned by the loader at merge time (used by consumers for
	// staggered rendering); stores leave it zero.
	Index int `json:"index"`
}

// Store is the remote document store collaborator. Implementations must
// be safe for concurrent use: the loader fans out multiple GetRecord
// calls per batch.
type Store interface {
	// ListIDs returns all record ids in a collection, unordered.
	// The full id set is assumed to fit in memory.
	ListIDs(ctx context.Context, collection string) ([]string, error)

	// GetRecord fetches a single record by id. Returns ErrNotFound
	// (possibly wrapped) when the record does not exist.
	GetRecord(ctx context.Context, collection, id string) (*PhotoRecord, error)
}
