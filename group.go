package catalog

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/mwantia/catalog/data"
	"github.com/tidwall/btree"
)

// deriveDatasets infers dataset records from the object locations under
// one owner's subtree. It is a pure function over the key list: given the
// same locations it always derives the same records in the same order,
// which is what makes repeated reconciliation idempotent.
//
// Shape inference per directory below the owner:
//   - exactly one object: a single dataset at that object's own path
//   - two or more objects sharing one extension: a family named after the
//     directory, with a glob pattern over the member basenames
//   - mixed extensions where every extension group has two or more
//     members: one family with format UNKNOWN
//   - mixed extensions with at least one one-off member: an unknown-shape
//     record the caller has to disambiguate
//
// Objects directly below the owner (no subdirectory) each become a single
// dataset named after their filename stem.
func deriveDatasets(owner, ownerBase string, locations []string) []*Dataset {
	sorted := make([]string, len(locations))
	copy(sorted, locations)
	sort.Strings(sorted)

	// Group relative keys by directory; the btree keeps directory order
	// deterministic independent of input order.
	directories := btree.NewMap[string, []string](0)
	for _, location := range sorted {
		rel := data.RelativeKey(location, ownerBase)
		if rel == "" || data.IsPrefix(rel) {
			continue
		}

		dir := path.Dir(rel)
		members, _ := directories.Get(dir)
		directories.Set(dir, append(members, path.Base(rel)))
	}

	derived := make([]*Dataset, 0)
	directories.Scan(func(dir string, members []string) bool {
		derived = append(derived, deriveDirectory(owner, ownerBase, dir, members)...)
		return true
	})

	resolveCollisions(derived)
	return derived
}

// resolveCollisions renames records whose derived names collide, so that
// no record shadows another when the batch is merged. Owner-root objects
// results.csv and results.json both derive the name results; they become
// results_CSV and results_JSON. The same applies when a root file shares
// its stem with a sibling directory's family. A name still taken after
// the format suffix gets an ordinal.
func resolveCollisions(records []*Dataset) {
	counts := make(map[string]int, len(records))
	for _, record := range records {
		counts[record.Name]++
	}

	taken := make(map[string]bool, len(records))
	for _, record := range records {
		if counts[record.Name] < 2 {
			taken[record.Name] = true
		}
	}

	for _, record := range records {
		if counts[record.Name] < 2 {
			continue
		}

		base := record.Name + "_" + string(record.Format)
		name := base
		for ordinal := 2; taken[name]; ordinal++ {
			name = fmt.Sprintf("%s_%d", base, ordinal)
		}

		record.Name = name
		taken[name] = true
	}
}

func deriveDirectory(owner, ownerBase, dir string, members []string) []*Dataset {
	// Lone files at the owner root are always single datasets.
	if dir == "." {
		records := make([]*Dataset, 0, len(members))
		for _, member := range members {
			location := data.JoinLocation(ownerBase, member)
			records = append(records, NewSingleDataset(owner, data.Stem(member), location))
		}

		return records
	}

	prefix := data.JoinLocation(ownerBase, dir) + "/"
	if len(members) == 1 {
		location := data.JoinLocation(ownerBase, dir, members[0])
		return []*Dataset{NewSingleDataset(owner, data.Stem(members[0]), location)}
	}

	name := strings.ReplaceAll(dir, "/", "_")
	format, uniform := memberFormat(members)
	if !uniform {
		return []*Dataset{NewUnknownDataset(owner, name, prefix, len(members))}
	}

	family, err := NewFamilyDataset(owner, name, prefix, format,
		globPattern(members), data.JoinLocation(ownerBase, dir, members[0]), len(members))
	if err != nil {
		// Unreachable with len(members) >= 2, but never drop a directory
		return []*Dataset{NewUnknownDataset(owner, name, prefix, len(members))}
	}

	return []*Dataset{family}
}

// memberFormat returns the shared format of a member list. A directory
// whose extensions differ still counts as uniform when every extension
// group has at least two members; its format degrades to UNKNOWN. A
// one-off extension mixed into a family makes the directory ambiguous.
func memberFormat(members []string) (data.Format, bool) {
	counts := make(map[string]int)
	for _, member := range members {
		counts[strings.ToLower(path.Ext(member))]++
	}

	if len(counts) == 1 {
		return data.FormatFromPath(members[0]), true
	}

	for _, count := range counts {
		if count < 2 {
			return data.FormatUnknown, false
		}
	}

	return data.FormatUnknown, true
}

// globPattern replaces the varying stem across member basenames with a
// single star, keeping the shared constant suffix. Members 0001_cfg.json
// and 0002_cfg.json yield *_cfg.json.
func globPattern(members []string) string {
	suffix := members[0]
	for _, member := range members[1:] {
		for !strings.HasSuffix(member, suffix) {
			suffix = suffix[1:]
		}
	}

	return "*" + suffix
}
