package catalog

import (
	"errors"

	"github.com/mwantia/catalog/storage"
)

// Standard catalog errors. Collaborator failures are wrapped into one of
// these so callers can match with errors.Is regardless of the backend.
var (
	// Lookup errors
	ErrNotFound = errors.New("catalog: record not found")

	// Storage collaborator errors. ErrStorageUnavailable aliases the
	// storage sentinel so errors.Is matches failures wrapped by any
	// storage client.
	ErrStorageUnavailable = storage.ErrUnavailable
	ErrInvalidLocation    = errors.New("catalog: invalid location")

	// Persistence errors
	ErrCorruptIndex = errors.New("catalog: persisted index is corrupt")

	// Content access errors
	ErrUnsupportedFormat = errors.New("catalog: unsupported format")
	ErrAmbiguousTarget   = errors.New("catalog: ambiguous target")
)
