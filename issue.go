package catalog

import "strings"

// FormatIssue normalizes an issue ID to the notation used for owner IDs
// across a project: lowercased, anything after the first underscore
// dropped, dashes removed. "OMICS-456_do_something" becomes "omics456".
//
// Owner IDs are stored verbatim; callers apply this at the boundary when
// their artifacts follow the issue-ID naming convention.
func FormatIssue(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	id, _, _ = strings.Cut(id, "_")

	return strings.ReplaceAll(id, "-", "")
}
