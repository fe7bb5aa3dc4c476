package catalog

import (
	"fmt"
	"iter"
	"sync"
)

// Catalog maps owner IDs (issue IDs) to named datasets. Iteration order is
// insertion order for owners and for names within an owner, so repeated
// enumeration and display stay deterministic.
//
// A Catalog is safe for concurrent reads, but reconciliation and reads
// must not run concurrently against the same instance, and concurrent
// processes must not mutate the same persisted catalog (see lock/consul).
type Catalog struct {
	mu sync.RWMutex

	base   string
	owners []string
	byName map[string]*ownerEntry
}

type ownerEntry struct {
	names   []string
	records map[string]*Dataset
}

// New creates an empty catalog rooted at the given bucket base location.
func New(base string) *Catalog {
	return &Catalog{
		base:   base,
		byName: make(map[string]*ownerEntry),
	}
}

// Base returns the bucket base location this catalog spans.
func (c *Catalog) Base() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.base
}

// Get returns the dataset at (owner, name).
func (c *Catalog) Get(owner, name string) (*Dataset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.byName[owner]
	if !exists {
		return nil, fmt.Errorf("%w: owner %q", ErrNotFound, owner)
	}

	record, exists := entry.records[name]
	if !exists {
		return nil, fmt.Errorf("%w: dataset %q under owner %q", ErrNotFound, name, owner)
	}

	return record, nil
}

// Contains reports whether (owner, name) exists.
func (c *Catalog) Contains(owner, name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.byName[owner]
	if !exists {
		return false
	}

	_, exists = entry.records[name]
	return exists
}

// Put inserts or replaces the record at its (owner, name) key. New owners
// and names append to iteration order; replaced names keep their position.
func (c *Catalog) Put(record *Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.put(record)
}

// PutAll inserts a batch of records under one lock acquisition.
func (c *Catalog) PutAll(records []*Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, record := range records {
		c.put(record)
	}
}

func (c *Catalog) put(record *Dataset) {
	entry, exists := c.byName[record.Owner]
	if !exists {
		entry = &ownerEntry{records: make(map[string]*Dataset)}
		c.byName[record.Owner] = entry
		c.owners = append(c.owners, record.Owner)
	}

	if _, exists := entry.records[record.Name]; !exists {
		entry.names = append(entry.names, record.Name)
	}
	entry.records[record.Name] = record
}

// Owners iterates owner IDs in insertion order. The sequence is finite
// and restartable.
func (c *Catalog) Owners() iter.Seq[string] {
	return func(yield func(string) bool) {
		c.mu.RLock()
		owners := make([]string, len(c.owners))
		copy(owners, c.owners)
		c.mu.RUnlock()

		for _, owner := range owners {
			if !yield(owner) {
				return
			}
		}
	}
}

// Names iterates dataset names under an owner in insertion order.
func (c *Catalog) Names(owner string) (iter.Seq[string], error) {
	c.mu.RLock()
	entry, exists := c.byName[owner]
	if !exists {
		c.mu.RUnlock()
		return nil, fmt.Errorf("%w: owner %q", ErrNotFound, owner)
	}

	names := make([]string, len(entry.names))
	copy(names, entry.names)
	c.mu.RUnlock()

	return func(yield func(string) bool) {
		for _, name := range names {
			if !yield(name) {
				return
			}
		}
	}, nil
}

// Records iterates every dataset in catalog order (owners, then names).
func (c *Catalog) Records() iter.Seq[*Dataset] {
	return func(yield func(*Dataset) bool) {
		c.mu.RLock()
		snapshot := c.snapshot()
		c.mu.RUnlock()

		for _, record := range snapshot {
			if !yield(record) {
				return
			}
		}
	}
}

func (c *Catalog) snapshot() []*Dataset {
	records := make([]*Dataset, 0, len(c.owners))
	for _, owner := range c.owners {
		entry := c.byName[owner]
		for _, name := range entry.names {
			records = append(records, entry.records[name])
		}
	}

	return records
}

// Len returns the total number of records.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := 0
	for _, entry := range c.byName {
		total += len(entry.records)
	}

	return total
}

func (c *Catalog) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := 0
	for _, entry := range c.byName {
		total += len(entry.records)
	}

	return fmt.Sprintf("catalog for %s: %d owners, %d records", c.base, len(c.owners), total)
}
