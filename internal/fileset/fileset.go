// Package fileset defines the three-way partition of archive entry paths
// produced by comparing two archives.
package fileset

import (
	"fmt"
	"strings"
)

// Diff partitions archive-relative paths into entries present only in the
// new archive (Added), present in both with differing content (Changed),
// and present only in the old archive (Removed).
//
// The three lists are mutually disjoint and sorted lexicographically.
// Paths use forward slashes regardless of host platform.
type Diff struct {
	Added   []string
	Changed []string
	Removed []string
}

// IsEmpty reports whether the diff carries no paths at all.
func (d Diff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Changed) == 0 && len(d.Removed) == 0
}

// Count returns the total number of paths across all three sets.
func (d Diff) Count() int {
	return len(d.Added) + len(d.Changed) + len(d.Removed)
}

// Pretty renders the diff for console warnings, one path per line with a
// +/~/- marker in added, changed, removed order.
func (d Diff) Pretty() string {
	var b strings.Builder
	for _, p := range d.Added {
		fmt.Fprintf(&b, "    + %s\n", p)
	}
	for _, p := range d.Changed {
		fmt.Fprintf(&b, "    ~ %s\n", p)
	}
	for _, p := range d.Removed {
		fmt.Fprintf(&b, "    - %s\n", p)
	}
	return strings.TrimRight(b.String(), "\n")
}
