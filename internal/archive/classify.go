package archive

import (
	"path"
	"strings"

	"patchcheck/internal/fileset"
)

// Classification uses Android archive conventions: compiled code lives
// under lib/ or jni/ (or carries a .so/.dex extension), bundled assets
// under assets/, res/ or flutter_assets/.
var (
	assetSegments = map[string]struct{}{
		"assets":         {},
		"flutter_assets": {},
		"res":            {},
	}
	nativeSegments = map[string]struct{}{
		"jni": {},
		"lib": {},
	}
	nativeExtensions = map[string]struct{}{
		".dex": {},
		".so":  {},
	}
)

// AssetChanges filters the diff down to entries that are bundled assets.
// Order within each list is preserved.
func (ZipDiffer) AssetChanges(d fileset.Diff) fileset.Diff {
	return filterDiff(d, isAssetPath)
}

// NativeChanges filters the diff down to entries that are compiled native
// or VM code, which cannot be delivered through a patch.
func (ZipDiffer) NativeChanges(d fileset.Diff) fileset.Diff {
	return filterDiff(d, isNativePath)
}

func filterDiff(d fileset.Diff, keep func(string) bool) fileset.Diff {
	var out fileset.Diff
	for _, p := range d.Added {
		if keep(p) {
			out.Added = append(out.Added, p)
		}
	}
	for _, p := range d.Changed {
		if keep(p) {
			out.Changed = append(out.Changed, p)
		}
	}
	for _, p := range d.Removed {
		if keep(p) {
			out.Removed = append(out.Removed, p)
		}
	}
	return out
}

func isAssetPath(p string) bool {
	return hasSegmentIn(p, assetSegments)
}

func isNativePath(p string) bool {
	if _, ok := nativeExtensions[strings.ToLower(path.Ext(p))]; ok {
		return true
	}
	return hasSegmentIn(p, nativeSegments)
}

func hasSegmentIn(p string, set map[string]struct{}) bool {
	for _, seg := range strings.Split(p, "/") {
		if _, ok := set[seg]; ok {
			return true
		}
	}
	return false
}
