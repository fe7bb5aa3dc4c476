package catalog

import (
	"iter"
	"strings"

	"github.com/mwantia/catalog/data"
)

// Query describes a multi-field search over a catalog. All fields are
// optional and combine with logical AND; the zero query matches every
// record.
type Query struct {
	// Exact, case-sensitive owner ID match
	Owner string `json:"owner,omitempty"`

	// Exact, case-sensitive dataset name match
	Name string `json:"name,omitempty"`

	// Case-insensitive format token match (e.g. "csv")
	Format string `json:"format,omitempty"`

	// Shape filter; nil matches every shape
	Shape *Shape `json:"shape,omitempty"`

	// Substring match against the record's location, and against its
	// pattern and example for families
	LocationContains string `json:"location_contains,omitempty"`
}

// Result is one search hit.
type Result struct {
	Owner   string
	Name    string
	Dataset *Dataset
}

// Search evaluates the query against the catalog and yields hits in
// catalog order (owners, then names). The sequence is restartable; an
// empty result is a valid, empty sequence.
func Search(c *Catalog, query *Query) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		for record := range c.Records() {
			if !query.matches(record) {
				continue
			}

			hit := Result{
				Owner:   record.Owner,
				Name:    record.Name,
				Dataset: record,
			}
			if !yield(hit) {
				return
			}
		}
	}
}

// SearchAll collects every hit into a slice.
func SearchAll(c *Catalog, query *Query) []Result {
	results := make([]Result, 0)
	for hit := range Search(c, query) {
		results = append(results, hit)
	}

	return results
}

func (q *Query) matches(record *Dataset) bool {
	if q == nil {
		return true
	}

	if q.Owner != "" && record.Owner != q.Owner {
		return false
	}

	if q.Name != "" && record.Name != q.Name {
		return false
	}

	if q.Format != "" && data.ParseFormat(q.Format) != record.Format {
		return false
	}

	if q.Shape != nil && record.Shape != *q.Shape {
		return false
	}

	if q.LocationContains != "" && !matchLocation(record, q.LocationContains) {
		return false
	}

	return true
}

func matchLocation(record *Dataset, substring string) bool {
	if strings.Contains(record.Location, substring) {
		return true
	}

	if record.Shape == ShapeFamily {
		return strings.Contains(record.Pattern, substring) ||
			strings.Contains(record.Example, substring)
	}

	return false
}
