// Package archive implements the ZIP-backed archive differ used by patch
// verification. It indexes entries by content hash, computes the
// added/changed/removed partition between two archives, classifies paths
// into asset and native change classes, and extracts raw entry content.
package archive

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"

	"patchcheck/internal/fileset"
)

// ZipDiffer compares two ZIP archives entry by entry. The zero value is
// ready to use.
type ZipDiffer struct{}

// Diff computes the three-way file-set partition between the two archives.
// Entries are matched by normalized path and compared by sha256 of their
// content. Directory entries are ignored.
func (ZipDiffer) Diff(oldPath, newPath string) (fileset.Diff, error) {
	oldIdx, err := indexArchive(oldPath)
	if err != nil {
		return fileset.Diff{}, fmt.Errorf("index %s: %w", oldPath, err)
	}
	newIdx, err := indexArchive(newPath)
	if err != nil {
		return fileset.Diff{}, fmt.Errorf("index %s: %w", newPath, err)
	}
	return partition(oldIdx, newIdx), nil
}

// ContentMap extracts every file entry of the archive into memory, keyed by
// normalized entry path. The map is scoped to a single export pass; nothing
// is cached across calls.
func (ZipDiffer) ContentMap(path string) (map[string][]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer zr.Close()

	out := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open entry %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", f.Name, err)
		}
		out[NormalizePath(f.Name)] = data
	}
	return out, nil
}

// partition splits the two path->hash indexes into added, changed and
// removed path lists, each sorted.
func partition(oldIdx, newIdx map[string]string) fileset.Diff {
	var d fileset.Diff
	for p, oldHash := range oldIdx {
		newHash, ok := newIdx[p]
		switch {
		case !ok:
			d.Removed = append(d.Removed, p)
		case oldHash != newHash:
			d.Changed = append(d.Changed, p)
		}
	}
	for p := range newIdx {
		if _, ok := oldIdx[p]; !ok {
			d.Added = append(d.Added, p)
		}
	}
	sort.Strings(d.Added)
	sort.Strings(d.Changed)
	sort.Strings(d.Removed)
	return d
}

// indexArchive maps normalized entry path -> lowercase hex sha256 of the
// entry content.
func indexArchive(path string) (map[string]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	idx := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		sum, err := hashEntry(f)
		if err != nil {
			return nil, fmt.Errorf("hash entry %s: %w", f.Name, err)
		}
		idx[NormalizePath(f.Name)] = sum
	}
	return idx, nil
}

func hashEntry(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	h := sha256.New()
	if _, err := io.Copy(h, rc); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// NormalizePath normalizes ZIP entry paths (forward slashes, no drive, no
// leading '/') and removes '.' and '..' segments without escaping the root.
// Backslashes are treated as separators on every platform; archives written
// by Windows tooling carry them regardless of the host.
func NormalizePath(p string) string {
	s := strings.ReplaceAll(p, `\`, "/")
	if len(s) > 1 && s[1] == ':' {
		s = s[2:]
	}
	s = strings.TrimLeft(s, "/")
	parts := strings.Split(s, "/")
	stack := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		if part == ".." {
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
			continue
		}
		stack = append(stack, part)
	}
	s = strings.Join(stack, "/")
	if s == "" {
		return "entry"
	}
	return s
}
