package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"patchcheck/internal/console"
	"patchcheck/internal/fileset"
)

// fakeReader serves canned content maps keyed by archive path.
type fakeReader struct {
	maps map[string]map[string][]byte
	errs map[string]error
}

func (f fakeReader) ContentMap(path string) (map[string][]byte, error) {
	if err := f.errs[path]; err != nil {
		return nil, err
	}
	return f.maps[path], nil
}

func testConsole() (*console.Console, *bytes.Buffer) {
	var out bytes.Buffer
	return console.NewWithStreams(&out, &out, strings.NewReader(""), false, false), &out
}

func newExporter(t *testing.T, old, new map[string][]byte) (*Exporter, string) {
	t.Helper()
	root := t.TempDir()
	cons, _ := testConsole()
	e := &Exporter{
		Reader: fakeReader{maps: map[string]map[string][]byte{
			"old.zip": old,
			"new.zip": new,
		}},
		Console:     cons,
		ResolveRoot: func() (string, bool) { return root, true },
	}
	return e, filepath.Join(root, ".shorebird", "asset_diffs")
}

func TestSanitizeName(t *testing.T) {
	in := `a/b\c:d e<f>g|h?i*j"k`
	got := SanitizeName(in)
	require.Equal(t, "a_b_c_d_e_f_g_h_i_j_k", got)
	require.NotContains(t, got, "/")
	require.NotContains(t, got, " ")
}

func TestExportChangedBinaryAsset(t *testing.T) {
	oldData := []byte("0123456789")   // 10 bytes
	newData := []byte("0123456789ab") // 12 bytes
	e, outDir := newExporter(t,
		map[string][]byte{"assets/logo.png": oldData},
		map[string][]byte{"assets/logo.png": newData},
	)

	err := e.Export("old.zip", "new.zip", fileset.Diff{Changed: []string{"assets/logo.png"}})
	require.NoError(t, err)

	assetDir := filepath.Join(outDir, "assets_logo.png")
	oldFile, err := os.ReadFile(filepath.Join(assetDir, "old"))
	require.NoError(t, err)
	require.Equal(t, oldData, oldFile)
	newFile, err := os.ReadFile(filepath.Join(assetDir, "new"))
	require.NoError(t, err)
	require.Equal(t, newData, newFile)

	diffText, err := os.ReadFile(filepath.Join(assetDir, "diff.txt"))
	require.NoError(t, err)
	for _, want := range []string{
		"Binary file comparison",
		"Old size: 10 bytes",
		"New size: 12 bytes",
		"Size change: 2 bytes",
		"Binary content differs (files have different sizes)",
	} {
		require.Contains(t, string(diffText), want)
	}

	list, err := os.ReadFile(filepath.Join(outDir, "changed_assets.txt"))
	require.NoError(t, err)
	require.Equal(t, "CHANGED: assets/logo.png\n", string(list))

	summary, err := os.ReadFile(filepath.Join(outDir, "asset_changes_summary.txt"))
	require.NoError(t, err)
	require.Contains(t, string(summary), "Changed assets:")
	require.Contains(t, string(summary), "assets/logo.png: 10 -> 12 bytes")
	require.Contains(t, string(summary), "Total changes: 1")
	require.Contains(t, string(summary), "Diff artifacts: "+outDir)
}

func TestExportAddedAndRemoved(t *testing.T) {
	e, outDir := newExporter(t,
		map[string][]byte{"assets/old.txt": []byte("bye")},
		map[string][]byte{"assets/new.txt": []byte("hello")},
	)

	err := e.Export("old.zip", "new.zip", fileset.Diff{
		Added:   []string{"assets/new.txt"},
		Removed: []string{"assets/old.txt"},
	})
	require.NoError(t, err)

	addedDir := filepath.Join(outDir, "assets_new.txt")
	require.FileExists(t, filepath.Join(addedDir, "new"))
	require.NoFileExists(t, filepath.Join(addedDir, "old"))
	require.NoFileExists(t, filepath.Join(addedDir, "diff.txt"))

	removedDir := filepath.Join(outDir, "assets_old.txt")
	require.FileExists(t, filepath.Join(removedDir, "old"))
	require.NoFileExists(t, filepath.Join(removedDir, "new"))

	list, err := os.ReadFile(filepath.Join(outDir, "changed_assets.txt"))
	require.NoError(t, err)
	require.Equal(t, "ADDED: assets/new.txt\nREMOVED: assets/old.txt\n", string(list))

	summary, err := os.ReadFile(filepath.Join(outDir, "asset_changes_summary.txt"))
	require.NoError(t, err)
	require.Contains(t, string(summary), "Added assets:\n  assets/new.txt (5 bytes)")
	require.Contains(t, string(summary), "Removed assets:\n  assets/old.txt (3 bytes)")
	require.Contains(t, string(summary), "Total changes: 2")
}

func TestExportTextAssetGetsLineDiff(t *testing.T) {
	e, outDir := newExporter(t,
		map[string][]byte{"assets/config.json": []byte("{\n  \"a\": 1\n}\n")},
		map[string][]byte{"assets/config.json": []byte("{\n  \"a\": 2\n}\n")},
	)

	err := e.Export("old.zip", "new.zip", fileset.Diff{Changed: []string{"assets/config.json"}})
	require.NoError(t, err)

	diffText, err := os.ReadFile(filepath.Join(outDir, "assets_config.json", "diff.txt"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(diffText), "--- old\n+++ new\n"))
	require.Contains(t, string(diffText), "-  \"a\": 1")
	require.Contains(t, string(diffText), "+  \"a\": 2")
}

func TestExportEmptyDiffIsNoop(t *testing.T) {
	e, outDir := newExporter(t, nil, nil)
	require.NoError(t, e.Export("old.zip", "new.zip", fileset.Diff{}))
	require.NoDirExists(t, outDir)
}

func TestExportWithoutRootIsSilentSkip(t *testing.T) {
	cons, out := testConsole()
	e := &Exporter{
		Reader:      fakeReader{},
		Console:     cons,
		ResolveRoot: func() (string, bool) { return "", false },
	}
	err := e.Export("old.zip", "new.zip", fileset.Diff{Added: []string{"assets/a.png"}})
	require.NoError(t, err)
	require.Empty(t, out.String())
}

func TestExportSkipsEntriesMissingFromContentMap(t *testing.T) {
	e, outDir := newExporter(t,
		map[string][]byte{},
		map[string][]byte{},
	)
	err := e.Export("old.zip", "new.zip", fileset.Diff{
		Added:   []string{"assets/ghost.png"},
		Changed: []string{"assets/phantom.png"},
		Removed: []string{"assets/shade.png"},
	})
	require.NoError(t, err)

	summary, err := os.ReadFile(filepath.Join(outDir, "asset_changes_summary.txt"))
	require.NoError(t, err)
	require.Contains(t, string(summary), "Total changes: 0")
	list, err := os.ReadFile(filepath.Join(outDir, "changed_assets.txt"))
	require.NoError(t, err)
	require.Empty(t, string(list))
}

func TestExportContainsDiffGenerationErrors(t *testing.T) {
	e, outDir := newExporter(t,
		map[string][]byte{"assets/a.txt": []byte("x")},
		map[string][]byte{"assets/a.txt": []byte("y")},
	)
	e.RenderDiff = func(string, []byte, []byte) (string, error) {
		return "", errors.New("corrupt stream")
	}

	err := e.Export("old.zip", "new.zip", fileset.Diff{Changed: []string{"assets/a.txt"}})
	require.NoError(t, err)

	diffText, err := os.ReadFile(filepath.Join(outDir, "assets_a.txt", "diff.txt"))
	require.NoError(t, err)
	require.Equal(t, "Error generating diff: corrupt stream\n", string(diffText))
}

func TestExportReplacesPreviousExport(t *testing.T) {
	e, outDir := newExporter(t,
		map[string][]byte{"assets/a.txt": []byte("1")},
		map[string][]byte{"assets/a.txt": []byte("2")},
	)

	stale := filepath.Join(outDir, "assets_stale.png")
	require.NoError(t, os.MkdirAll(stale, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "old"), []byte("stale"), 0o644))

	err := e.Export("old.zip", "new.zip", fileset.Diff{Changed: []string{"assets/a.txt"}})
	require.NoError(t, err)
	require.NoDirExists(t, stale)
	require.FileExists(t, filepath.Join(outDir, "assets_a.txt", "diff.txt"))
}
