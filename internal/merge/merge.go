// SPDX-License-Identifier: MPL-2.0

// Package merge reconciles a decoded depot archive with an existing
// local project.
//
// Entries are first materialized into a disposable staging directory,
// never directly into the target: a failed or declined merge leaves the
// project exactly as it was. Conflicts (files that already exist) are a
// decision point, not an error — the caller supplies the yes/no. The
// script manifest ledger has its own append-only merge rule and is
// excluded from both conflict detection and the generic copy.
package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"depot-cli/pkg/transfer"
)

type (
	// ConfirmFunc decides whether conflicting files may be overwritten.
	// It is invoked synchronously with the conflicting relative paths.
	ConfirmFunc func(conflicts []string) bool

	// Outcome reports what a merge did.
	Outcome struct {
		// FilesWritten counts files copied into the target.
		FilesWritten int
		// DirsCreated counts directories created in the target.
		DirsCreated int
		// Conflicts are the relative paths that already existed.
		Conflicts []string
		// Declined is true when the caller rejected the overwrite.
		Declined bool
		// ManifestMerged is true when the script ledger was updated.
		ManifestMerged bool
	}
)

// Merge materializes archive entries into targetRoot. See the package
// doc for the staging, conflict, and ledger rules. The staging area is
// removed before Merge returns, whatever the outcome.
func Merge(entries []transfer.Entry, targetRoot string, confirm ConfirmFunc) (*Outcome, error) {
	if targetRoot == "" {
		return nil, fmt.Errorf("merge target directory is empty")
	}

	staging, err := os.MkdirTemp("", "depot-import-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging area: %w", err)
	}
	// Staging never survives the call, not even on error paths.
	defer os.RemoveAll(staging)

	if err := materialize(entries, staging); err != nil {
		return nil, err
	}

	outcome := &Outcome{Conflicts: findConflicts(entries, targetRoot)}

	if len(outcome.Conflicts) > 0 {
		if confirm == nil || !confirm(outcome.Conflicts) {
			outcome.Declined = true
			return outcome, nil
		}
	}

	merged, err := mergeManifest(staging, targetRoot)
	if err != nil {
		return nil, err
	}
	outcome.ManifestMerged = merged

	if err := copyStaged(entries, staging, targetRoot, outcome); err != nil {
		return nil, err
	}

	return outcome, nil
}

// materialize writes entries into the staging directory.
func materialize(entries []transfer.Entry, staging string) error {
	for _, e := range entries {
		dest, err := securePath(staging, e.Path)
		if err != nil {
			return err
		}
		if e.IsDir {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return fmt.Errorf("failed to stage directory %s: %w", e.Path, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("failed to stage parent of %s: %w", e.Path, err)
		}
		if err := os.WriteFile(dest, e.Content, 0o644); err != nil {
			return fmt.Errorf("failed to stage %s: %w", e.Path, err)
		}
	}
	return nil
}

// findConflicts returns the file entries that already exist as files
// under targetRoot. Directories never conflict, and the manifest ledger
// is governed by its own merge rule.
func findConflicts(entries []transfer.Entry, targetRoot string) []string {
	var conflicts []string
	for _, e := range entries {
		if e.IsDir || e.Path == transfer.ManifestPath {
			continue
		}
		info, err := os.Stat(filepath.Join(targetRoot, filepath.FromSlash(e.Path)))
		if err == nil && !info.IsDir() {
			conflicts = append(conflicts, e.Path)
		}
	}
	return conflicts
}

// copyStaged copies every staged entry except the manifest into the
// target, creating parents as needed. Files overwrite unconditionally;
// conflicts were already resolved.
func copyStaged(entries []transfer.Entry, staging, targetRoot string, outcome *Outcome) error {
	for _, e := range entries {
		if e.Path == transfer.ManifestPath {
			continue
		}
		dest := filepath.Join(targetRoot, filepath.FromSlash(e.Path))

		if e.IsDir {
			if _, err := os.Stat(dest); os.IsNotExist(err) {
				outcome.DirsCreated++
			}
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", e.Path, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("failed to create parent of %s: %w", e.Path, err)
		}
		content, err := os.ReadFile(filepath.Join(staging, filepath.FromSlash(e.Path)))
		if err != nil {
			return fmt.Errorf("failed to read staged %s: %w", e.Path, err)
		}
		if err := os.WriteFile(dest, content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", e.Path, err)
		}
		outcome.FilesWritten++
	}
	return nil
}

// securePath joins a forward-slash relative entry path under root,
// rejecting traversal. Decoded archives are already validated, but the
// merge engine does not rely on its caller for that.
func securePath(root, rel string) (string, error) {
	dest := filepath.Join(root, filepath.FromSlash(rel))
	if relBack, err := filepath.Rel(root, dest); err != nil || strings.HasPrefix(relBack, "..") {
		return "", fmt.Errorf("entry %s escapes the target directory", rel)
	}
	return dest, nil
}
