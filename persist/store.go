// Package persist saves and loads catalogs. Every store round-trips a
// catalog exactly: all records, all metadata fields, and the insertion
// order of owners and names.
package persist

import (
	"context"

	"github.com/mwantia/catalog"
)

// Store is a durable home for one catalog. Stores are not safe for
// concurrent writers against the same backing location; callers serialize
// Save with an advisory lock (see lock/consul) or confine a location to
// one writer process.
type Store interface {
	// Load rehydrates the catalog. A missing location yields
	// catalog.ErrNotFound; undecodable state yields catalog.ErrCorruptIndex.
	Load(ctx context.Context) (*catalog.Catalog, error)

	// Save persists the catalog, atomically replacing any previous state.
	Save(ctx context.Context, cat *catalog.Catalog) error
}
