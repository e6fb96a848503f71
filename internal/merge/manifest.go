// SPDX-License-Identifier: MPL-2.0

package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"depot-cli/pkg/transfer"
)

// mergeManifest applies the ledger rule: when the staging area carries
// Script/manifest.csv and the target already has one, the merged ledger
// is the existing text (trimmed of trailing newlines) plus the incoming
// body with its header line removed — the header survives exactly once,
// taken from the existing ledger. A target without a ledger receives
// the incoming one verbatim. An incoming ledger that is empty, or
// carries nothing but its header, contributes no lines to an existing
// ledger.
//
// The ledger is written in one shot: it is either fully updated or not
// touched at all. Returns whether the target ledger changed.
func mergeManifest(staging, targetRoot string) (bool, error) {
	stagedPath := filepath.Join(staging, filepath.FromSlash(transfer.ManifestPath))
	incoming, err := os.ReadFile(stagedPath)
	if os.IsNotExist(err) {
		return false, nil // archive carries no ledger
	}
	if err != nil {
		return false, fmt.Errorf("failed to read staged manifest: %w", err)
	}

	targetPath := filepath.Join(targetRoot, filepath.FromSlash(transfer.ManifestPath))
	existing, err := os.ReadFile(targetPath)
	if os.IsNotExist(err) {
		// First import into this project: the incoming ledger, header
		// included, becomes the project ledger.
		if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
			return false, fmt.Errorf("failed to create manifest directory: %w", err)
		}
		if err := os.WriteFile(targetPath, incoming, 0o644); err != nil {
			return false, fmt.Errorf("failed to write manifest: %w", err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read existing manifest %s: %w", targetPath, err)
	}

	body := stripHeader(string(incoming))
	if body == "" {
		return false, nil
	}

	merged := strings.TrimRight(string(existing), "\n") + "\n" + body
	if !strings.HasSuffix(merged, "\n") {
		merged += "\n"
	}
	if err := os.WriteFile(targetPath, []byte(merged), 0o644); err != nil {
		return false, fmt.Errorf("failed to write merged manifest: %w", err)
	}
	return true, nil
}

// stripHeader drops the first line of an incoming ledger and returns
// the remaining body, "" when nothing but the header (or nothing at
// all) was present.
func stripHeader(text string) string {
	_, body, found := strings.Cut(text, "\n")
	if !found {
		return ""
	}
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return body
}
