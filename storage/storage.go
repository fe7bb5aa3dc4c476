// Package storage defines the object-storage collaborator boundary the
// catalog consumes. Implementations speak the storage service's own
// protocol and surface its native consistency guarantees unchanged.
package storage

import (
	"context"
	"errors"
	"io"
)

// Standard storage errors. Implementations wrap transport and timeout
// failures into ErrUnavailable so callers can match with errors.Is.
var (
	ErrUnavailable = errors.New("storage: unavailable or timed out")
	ErrNotExist    = errors.New("storage: object does not exist")
)

// Lister enumerates object locations under a prefix. The returned slice
// holds full locations (scheme://bucket/key), sorted lexicographically,
// and reflects a finite, restartable snapshot of the listing.
type Lister interface {
	List(ctx context.Context, prefix string) ([]string, error)
}

// Reader streams the bytes of one object.
type Reader interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// Writer creates or overwrites one object. A negative size means the
// length is unknown in advance.
type Writer interface {
	Put(ctx context.Context, location string, r io.Reader, size int64) error
}

// Client combines the full collaborator surface.
type Client interface {
	Lister
	Reader
	Writer
}
