// Package main provides the patchcheck CLI, which verifies that a patch
// archive can be applied safely on top of a previously published release
// archive. It classifies structural differences between the two archives
// into asset and native change classes, gates on policy and interactive
// confirmation, and exports per-asset diff artifacts under
// <project-root>/.shorebird/asset_diffs for inspection.
//
// Usage:
//
//	patchcheck [flags] <release-archive> <patch-archive>
//
// Exit codes:
//
//	0  patch verified (possibly with allowed changes)
//	1  unexpected failure (I/O, malformed archive)
//	2  usage error
//	3  unpatchable changes in a non-interactive context
//	4  user declined to continue
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"patchcheck/internal/archive"
	"patchcheck/internal/console"
	"patchcheck/internal/export"
	"patchcheck/internal/project"
	"patchcheck/internal/verify"
)

func main() {
	allowAssets := pflag.Bool("allow-asset-changes", false,
		"proceed without confirmation when asset changes are detected")
	allowNative := pflag.Bool("allow-native-changes", false,
		"proceed without confirmation when native code changes are detected")
	noConfirmNative := pflag.Bool("no-confirm-native", false,
		"skip warnings and gating for native code changes")
	projectDir := pflag.String("project-dir", ".",
		"directory to resolve the enclosing project from")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <release-archive> <patch-archive>\n",
			filepath.Base(os.Args[0]))
		fmt.Fprintln(os.Stderr, "\nFlags:")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() != 2 {
		pflag.Usage()
		os.Exit(2)
	}
	releasePath, patchPath := pflag.Arg(0), pflag.Arg(1)

	cons := console.New()

	resolveRoot := func() (string, bool) {
		p, err := project.Find(*projectDir)
		if err != nil {
			if !errors.Is(err, project.ErrNotFound) {
				cons.Warn("could not resolve project: %v", err)
			}
			return "", false
		}
		return p.Dir, true
	}

	differ := archive.ZipDiffer{}
	verifier := &verify.Verifier{
		Differ:  differ,
		Console: cons,
		Exporter: &export.Exporter{
			Reader:      differ,
			Console:     cons,
			ResolveRoot: resolveRoot,
		},
	}

	status, err := verifier.Verify(releasePath, patchPath, verify.Policy{
		AllowAssetChanges:    *allowAssets,
		AllowNativeChanges:   *allowNative,
		ConfirmNativeChanges: !*noConfirmNative,
	})
	switch {
	case errors.Is(err, verify.ErrUnpatchable):
		cons.Error("%v", err)
		cons.Error("Re-run with --allow-asset-changes or --allow-native-changes to override, or create a new release.")
		os.Exit(3)
	case errors.Is(err, verify.ErrUserCancelled):
		cons.Info("Aborted.")
		os.Exit(4)
	case err != nil:
		cons.Error("%v", err)
		os.Exit(1)
	}

	if status.HasAssetChanges || status.HasNativeChanges {
		cons.Info("Continuing with detected changes.")
		return
	}
	cons.Info("No breaking changes detected.")
}
