package cache

import (
	"strings"
)

// Key identifies a cached document-store response.
type Key struct {
	// Collection is the document collection name (e.g. "photos")
	Collection string

	// RecordID is the record id; empty for collection-level responses
	// such as id listings
	RecordID string
}

// String generates a deterministic cache key string.
// Format: gallery:{collection}:record:{id} for records,
// gallery:{collection}:ids for id listings.
//
// Example:
//
//	gallery:photos:record:a1b2c3
func (k Key) String() string {
	parts := []string{"gallery", strings.TrimSpace(k.Collection)}

	if k.RecordID != "" {
		parts = append(parts, "record", k.RecordID)
	} else {
		parts = append(parts, "ids")
	}

	return strings.Join(parts, ":")
}
