// Package memory provides an in-memory bucket, used as the listing test
// double and as a local playground backend.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mwantia/catalog/storage"
	"github.com/tidwall/btree"
)

// MemoryClient stores objects in a sorted key map, so listings come back
// in lexicographic order like a real bucket listing.
type MemoryClient struct {
	mu sync.RWMutex

	objects *btree.Map[string, []byte]
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		objects: btree.NewMap[string, []byte](0),
	}
}

// Seed inserts an object without going through the Writer interface.
func (mc *MemoryClient) Seed(location string, content []byte) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.objects.Set(location, content)
}

// Len returns the number of stored objects.
func (mc *MemoryClient) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	return mc.objects.Len()
}

func (mc *MemoryClient) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	mc.mu.RLock()
	defer mc.mu.RUnlock()

	locations := make([]string, 0)
	mc.objects.Ascend(prefix, func(location string, _ []byte) bool {
		if !strings.HasPrefix(location, prefix) {
			return false
		}

		locations = append(locations, location)
		return true
	})

	return locations, nil
}

func (mc *MemoryClient) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	mc.mu.RLock()
	defer mc.mu.RUnlock()

	content, exists := mc.objects.Get(location)
	if !exists {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotExist, location)
	}

	return io.NopCloser(bytes.NewReader(content)), nil
}

func (mc *MemoryClient) Put(ctx context.Context, location string, r io.Reader, size int64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.objects.Set(location, content)
	return nil
}
