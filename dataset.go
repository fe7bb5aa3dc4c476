package catalog

import (
	"fmt"

	"github.com/mwantia/catalog/data"
)

// Shape describes how a dataset maps onto bucket objects.
type Shape string

const (
	// ShapeSingle is one concrete object at the dataset's location.
	ShapeSingle Shape = "single"
	// ShapeFamily is a group of objects under the dataset's location
	// prefix whose names match a shared pattern.
	ShapeFamily Shape = "family"
	// ShapeUnknown marks a directory whose contents mix one-off files and
	// pattern groups; the caller has to disambiguate before content access.
	ShapeUnknown Shape = "unknown"
)

func (s Shape) String() string {
	return string(s)
}

// ParseShape normalizes a caller-supplied shape token.
func ParseShape(token string) (Shape, error) {
	switch Shape(token) {
	case ShapeSingle, ShapeFamily, ShapeUnknown:
		return Shape(token), nil
	default:
		return "", fmt.Errorf("invalid shape %q", token)
	}
}

// Key identifies one dataset within a catalog.
type Key struct {
	Owner string
	Name  string
}

func (k Key) String() string {
	return k.Owner + "/" + k.Name
}

// Dataset is one named data artifact filed under an owner. Pattern,
// Example and MemberCount are only present on family-shaped records.
type Dataset struct {
	Owner    string      `json:"owner" cbor:"1,keyasint"`
	Name     string      `json:"name" cbor:"2,keyasint"`
	Location string      `json:"location" cbor:"3,keyasint"`
	Shape    Shape       `json:"shape" cbor:"4,keyasint"`
	Format   data.Format `json:"format" cbor:"5,keyasint"`

	Pattern     string `json:"pattern,omitempty" cbor:"6,keyasint,omitempty"`
	Example     string `json:"example,omitempty" cbor:"7,keyasint,omitempty"`
	MemberCount int    `json:"member_count,omitempty" cbor:"8,keyasint,omitempty"`
}

// NewSingleDataset creates a record for one concrete object. The format is
// inferred from the location's extension.
func NewSingleDataset(owner, name, location string) *Dataset {
	return &Dataset{
		Owner:    owner,
		Name:     name,
		Location: location,
		Shape:    ShapeSingle,
		Format:   data.FormatFromPath(location),
	}
}

// NewFamilyDataset creates a record for a group of objects under a common
// prefix. The location is normalized to end in a slash.
func NewFamilyDataset(owner, name, location string, format data.Format, pattern, example string, count int) (*Dataset, error) {
	if pattern == "" || example == "" || count < 1 {
		return nil, fmt.Errorf("family %s/%s requires pattern, example and at least one member", owner, name)
	}

	if !data.IsPrefix(location) {
		location += "/"
	}

	return &Dataset{
		Owner:       owner,
		Name:        name,
		Location:    location,
		Shape:       ShapeFamily,
		Format:      format,
		Pattern:     pattern,
		Example:     example,
		MemberCount: count,
	}, nil
}

// NewUnknownDataset creates a record for a directory whose shape could not
// be inferred.
func NewUnknownDataset(owner, name, location string, count int) *Dataset {
	if !data.IsPrefix(location) {
		location += "/"
	}

	return &Dataset{
		Owner:       owner,
		Name:        name,
		Location:    location,
		Shape:       ShapeUnknown,
		Format:      data.FormatUnknown,
		MemberCount: count,
	}
}

// Key returns the dataset's catalog key.
func (ds *Dataset) Key() Key {
	return Key{Owner: ds.Owner, Name: ds.Name}
}

// Equal reports record identity. MemberCount and Example are refreshed
// metadata, not identity.
func (ds *Dataset) Equal(other *Dataset) bool {
	if other == nil {
		return ds == nil
	}

	return ds.Owner == other.Owner &&
		ds.Name == other.Name &&
		ds.Location == other.Location &&
		ds.Shape == other.Shape &&
		ds.Pattern == other.Pattern
}

// Clone returns a copy the caller may mutate freely.
func (ds *Dataset) Clone() *Dataset {
	clone := *ds
	return &clone
}

func (ds *Dataset) String() string {
	switch ds.Shape {
	case ShapeFamily:
		return fmt.Sprintf("dataset %s/%s [%s %s] %s (%d members, pattern %s)",
			ds.Owner, ds.Name, ds.Shape, ds.Format, ds.Location, ds.MemberCount, ds.Pattern)
	default:
		return fmt.Sprintf("dataset %s/%s [%s %s] %s", ds.Owner, ds.Name, ds.Shape, ds.Format, ds.Location)
	}
}
