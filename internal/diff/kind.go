package diff

import (
	"path"
	"strings"
)

// textExtensions routes files to the line differ; anything else is treated
// as binary.
var textExtensions = map[string]struct{}{
	".arb":        {},
	".c":          {},
	".cc":         {},
	".cfg":        {},
	".cpp":        {},
	".cs":         {},
	".css":        {},
	".csv":        {},
	".dart":       {},
	".go":         {},
	".gradle":     {},
	".h":          {},
	".hpp":        {},
	".htm":        {},
	".html":       {},
	".ini":        {},
	".java":       {},
	".js":         {},
	".json":       {},
	".kt":         {},
	".md":         {},
	".plist":      {},
	".properties": {},
	".proto":      {},
	".py":         {},
	".rb":         {},
	".sh":         {},
	".svg":        {},
	".swift":      {},
	".toml":       {},
	".ts":         {},
	".tsx":        {},
	".txt":        {},
	".xml":        {},
	".yaml":       {},
	".yml":        {},
}

// IsTextPath reports whether the file at path should be compared line by
// line rather than byte by byte.
func IsTextPath(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	_, ok := textExtensions[ext]
	return ok
}

// File renders the comparison artifact for an archive-relative path,
// choosing the line or binary renderer by file extension.
func File(p string, oldData, newData []byte) string {
	if IsTextPath(p) {
		return Lines(SplitLines(oldData), SplitLines(newData))
	}
	return Binary(oldData, newData)
}
