package data

import (
	"fmt"
	"path"
	"strings"
)

// Locations use the form <scheme>://<bucket>/<key-path>. Family locations
// always end in a trailing slash to mark them as prefixes.

// ParseLocation splits a location into scheme, bucket and key.
func ParseLocation(location string) (scheme, bucket, key string, err error) {
	idx := strings.Index(location, "://")
	if idx <= 0 {
		return "", "", "", fmt.Errorf("missing scheme in %q", location)
	}

	scheme = location[:idx]
	rest := location[idx+3:]
	if rest == "" {
		return "", "", "", fmt.Errorf("missing bucket in %q", location)
	}

	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", "", fmt.Errorf("missing bucket in %q", location)
	}

	return scheme, bucket, key, nil
}

// JoinLocation appends key segments to a base location, collapsing
// duplicate slashes between segments.
func JoinLocation(base string, segments ...string) string {
	joined := strings.TrimSuffix(base, "/")
	for _, segment := range segments {
		joined = joined + "/" + strings.Trim(segment, "/")
	}

	return joined
}

// IsPrefix reports whether a location denotes a prefix rather than one
// concrete object.
func IsPrefix(location string) bool {
	return strings.HasSuffix(location, "/")
}

// BaseName returns the final path component of a location or key.
func BaseName(location string) string {
	return path.Base(strings.TrimSuffix(location, "/"))
}

// Stem returns the final path component with its extension stripped.
func Stem(location string) string {
	base := BaseName(location)
	ext := path.Ext(base)

	return strings.TrimSuffix(base, ext)
}

// RelativeKey removes the base prefix from a location, returning the
// remainder without leading slashes.
func RelativeKey(location, base string) string {
	rel := strings.TrimPrefix(location, strings.TrimSuffix(base, "/"))
	return strings.TrimPrefix(rel, "/")
}
