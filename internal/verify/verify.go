// Package verify decides whether a binary patch may ship. It diffs the
// release and patch archives, classifies structural differences into asset
// and native change classes, and gates each class on policy and, when
// needed, interactive confirmation.
package verify

import (
	"errors"
	"fmt"

	"patchcheck/internal/console"
	"patchcheck/internal/fileset"
)

// Policy controls how detected change classes are handled.
type Policy struct {
	// AllowAssetChanges proceeds past detected asset changes without
	// prompting.
	AllowAssetChanges bool
	// AllowNativeChanges proceeds past detected native changes without
	// prompting.
	AllowNativeChanges bool
	// ConfirmNativeChanges enables warning and gating for native changes.
	// When false, native changes are still reported in the status but
	// never block.
	ConfirmNativeChanges bool
}

// Status is the classification outcome of one verification call.
type Status struct {
	HasAssetChanges  bool
	HasNativeChanges bool
}

// The two terminal gate outcomes. They are disjoint: a single call raises
// at most one of them, and both leave already-exported artifacts on disk.
var (
	// ErrUnpatchable is raised when a disallowed change class is detected
	// and no interactive confirmation channel exists.
	ErrUnpatchable = errors.New("patch contains breaking changes")
	// ErrUserCancelled is raised when the user declines to continue at the
	// prompt.
	ErrUserCancelled = errors.New("cancelled by user")
)

// ArchiveDiffer is the structural-diff collaborator: it produces the
// three-way file-set diff between two archives and classifies its paths.
type ArchiveDiffer interface {
	Diff(oldPath, newPath string) (fileset.Diff, error)
	AssetChanges(d fileset.Diff) fileset.Diff
	NativeChanges(d fileset.Diff) fileset.Diff
}

// Exporter writes asset diff artifacts as a side channel for developer
// inspection.
type Exporter interface {
	Export(oldArchive, newArchive string, assets fileset.Diff) error
}

// Verifier orchestrates one verification call. All collaborators are
// injected; the zero value is not usable.
type Verifier struct {
	Differ   ArchiveDiffer
	Console  *console.Console
	Exporter Exporter
}

// Verify diffs the two archives, classifies the result and gates each
// breaking change class against policy.
//
// Asset diff artifacts are exported whenever asset changes exist, before
// the asset gate runs, so they remain on disk even when the user
// subsequently cancels. Native changes are reported but never exported.
func (v *Verifier) Verify(oldArchive, newArchive string, pol Policy) (Status, error) {
	task := v.Console.Progress("Verifying patch can be applied to release")
	defer task.Fail()
	d, err := v.Differ.Diff(oldArchive, newArchive)
	if err != nil {
		return Status{}, fmt.Errorf("diff archives: %w", err)
	}
	task.Done()

	assets := v.Differ.AssetChanges(d)
	native := v.Differ.NativeChanges(d)
	status := Status{
		HasAssetChanges:  !assets.IsEmpty(),
		HasNativeChanges: !native.IsEmpty(),
	}

	if status.HasNativeChanges && pol.ConfirmNativeChanges {
		v.Console.Warn("The patch contains native code changes, which cannot be delivered by a patch.")
		v.Console.Detail(native.Pretty())
		if err := v.gate(pol.AllowNativeChanges, "native code"); err != nil {
			return Status{}, err
		}
	}

	if status.HasAssetChanges {
		v.Console.Warn("The patch contains asset changes, which will not be delivered to end users.")
		v.Console.Detail(assets.Pretty())
		if err := v.Exporter.Export(oldArchive, newArchive, assets); err != nil {
			return Status{}, fmt.Errorf("export asset diffs: %w", err)
		}
		if err := v.gate(pol.AllowAssetChanges, "asset"); err != nil {
			return Status{}, err
		}
	}

	return status, nil
}

// gate is the shared confirmation step for both change classes: allowed
// changes pass silently, disallowed ones fail outright without an
// interactive channel or hand the decision to the user.
func (v *Verifier) gate(allowed bool, class string) error {
	if allowed {
		return nil
	}
	if !v.Console.Interactive() {
		return fmt.Errorf("%s changes detected in a non-interactive context: %w", class, ErrUnpatchable)
	}
	ok, err := v.Console.Confirm("Continue anyway?")
	if err != nil {
		return fmt.Errorf("confirm %s changes: %w", class, err)
	}
	if !ok {
		return ErrUserCancelled
	}
	return nil
}
