// Package export writes the on-disk asset diff artifacts produced when a
// patch changes bundled assets.
//
// Layout, relative to the project root:
//
//	.shorebird/asset_diffs/changed_assets.txt          flat change list
//	.shorebird/asset_diffs/asset_changes_summary.txt   structured report
//	.shorebird/asset_diffs/<sanitized-path>/old        pre-patch bytes
//	.shorebird/asset_diffs/<sanitized-path>/new        post-patch bytes
//	.shorebird/asset_diffs/<sanitized-path>/diff.txt   comparison (changed only)
//
// The export root is recreated from scratch on every export; nothing from
// a previous run survives.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"patchcheck/internal/console"
	"patchcheck/internal/diff"
	"patchcheck/internal/fileset"
)

const (
	stateDirName   = ".shorebird"
	exportDirName  = "asset_diffs"
	changeListName = "changed_assets.txt"
	summaryName    = "asset_changes_summary.txt"
)

// unsafeNameChars are the characters replaced by '_' when an archive path
// is flattened into a directory name.
var unsafeNameChars = regexp.MustCompile(`[/\\: <>|?*"]`)

// SanitizeName maps an archive-relative path to a flat directory name.
// Distinct paths can collide after sanitization; the last writer wins and
// no disambiguation is attempted.
func SanitizeName(p string) string {
	return unsafeNameChars.ReplaceAllString(p, "_")
}

// ContentReader extracts the full content of an archive, keyed by
// archive-relative path.
type ContentReader interface {
	ContentMap(archivePath string) (map[string][]byte, error)
}

// Exporter writes per-asset diff artifacts for developer inspection.
// Export is best-effort with respect to project resolution: without a
// resolvable root it does nothing.
type Exporter struct {
	Reader      ContentReader
	Console     *console.Console
	ResolveRoot func() (string, bool)

	// RenderDiff generates diff.txt content for a changed asset. When nil,
	// diff.File is used. Errors are recorded inside the artifact, never
	// propagated: one undiffable asset must not abort the rest.
	RenderDiff func(path string, oldData, newData []byte) (string, error)
}

// Export writes artifacts for every added, changed and removed asset in d,
// replacing any previous export under <root>/.shorebird/asset_diffs.
// Entries missing from the expected content map are skipped silently.
func (e *Exporter) Export(oldArchive, newArchive string, d fileset.Diff) error {
	if d.IsEmpty() {
		return nil
	}
	root, ok := e.ResolveRoot()
	if !ok {
		return nil
	}
	outDir := filepath.Join(root, stateDirName, exportDirName)
	if err := os.RemoveAll(outDir); err != nil {
		return fmt.Errorf("reset %s: %w", outDir, err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}

	oldContent, err := e.Reader.ContentMap(oldArchive)
	if err != nil {
		return fmt.Errorf("extract %s: %w", oldArchive, err)
	}
	newContent, err := e.Reader.ContentMap(newArchive)
	if err != nil {
		return fmt.Errorf("extract %s: %w", newArchive, err)
	}

	var list []string
	var summary strings.Builder
	summary.WriteString("Asset changes between release and patch archives\n")
	summary.WriteString("================================================\n")
	total := 0

	if len(d.Added) > 0 {
		summary.WriteString("\nAdded assets:\n")
		for _, p := range d.Added {
			data, ok := newContent[p]
			if !ok {
				continue
			}
			if err := writeAsset(outDir, p, "new", data); err != nil {
				return err
			}
			list = append(list, "ADDED: "+p)
			fmt.Fprintf(&summary, "  %s (%d bytes)\n", p, len(data))
			total++
		}
	}

	if len(d.Changed) > 0 {
		summary.WriteString("\nChanged assets:\n")
		for _, p := range d.Changed {
			oldData, okOld := oldContent[p]
			newData, okNew := newContent[p]
			if !okOld || !okNew {
				continue
			}
			if err := writeAsset(outDir, p, "old", oldData); err != nil {
				return err
			}
			if err := writeAsset(outDir, p, "new", newData); err != nil {
				return err
			}
			if err := writeAsset(outDir, p, "diff.txt", []byte(e.renderDiff(p, oldData, newData))); err != nil {
				return err
			}
			list = append(list, "CHANGED: "+p)
			fmt.Fprintf(&summary, "  %s: %d -> %d bytes\n", p, len(oldData), len(newData))
			total++
		}
	}

	if len(d.Removed) > 0 {
		summary.WriteString("\nRemoved assets:\n")
		for _, p := range d.Removed {
			data, ok := oldContent[p]
			if !ok {
				continue
			}
			if err := writeAsset(outDir, p, "old", data); err != nil {
				return err
			}
			list = append(list, "REMOVED: "+p)
			fmt.Fprintf(&summary, "  %s (%d bytes)\n", p, len(data))
			total++
		}
	}

	fmt.Fprintf(&summary, "\nTotal changes: %d\n", total)
	fmt.Fprintf(&summary, "\nDiff artifacts: %s\n", outDir)

	listBody := ""
	if len(list) > 0 {
		listBody = strings.Join(list, "\n") + "\n"
	}
	if err := os.WriteFile(filepath.Join(outDir, changeListName), []byte(listBody), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", changeListName, err)
	}
	if err := os.WriteFile(filepath.Join(outDir, summaryName), []byte(summary.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", summaryName, err)
	}

	e.Console.Info("Exported asset diff artifacts to %s", outDir)
	return nil
}

func (e *Exporter) renderDiff(p string, oldData, newData []byte) string {
	render := e.RenderDiff
	if render == nil {
		render = func(p string, oldData, newData []byte) (string, error) {
			return diff.File(p, oldData, newData), nil
		}
	}
	text, err := render(p, oldData, newData)
	if err != nil {
		return "Error generating diff: " + err.Error() + "\n"
	}
	return text
}

// writeAsset writes one artifact file under the asset's sanitized
// subdirectory, creating the directory on first use.
func writeAsset(outDir, assetPath, name string, data []byte) error {
	dir := filepath.Join(outDir, SanitizeName(assetPath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s for %s: %w", name, assetPath, err)
	}
	return nil
}
