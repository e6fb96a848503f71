// SPDX-License-Identifier: MPL-2.0

// Package transfer encodes a component selection into the depot archive
// layout and decodes received archives back into entries.
//
// The archive is a flat zip namespace:
//
//	TD/                                    (always present, empty)
//	FD/                                    (always present, empty)
//	<Type>/<package><module><code>.<ext>   (one file per component)
//	Script/manifest.csv                    (append-only script ledger)
//
// Both directions are pure transforms; nothing here touches the
// filesystem.
package transfer

import (
	"fmt"
	"sort"
	"strings"

	"depot-cli/pkg/catalog"
)

const (
	// TechDir and FuncDir are always emitted, empty, at the head of
	// every archive. Receiving tools key on their presence.
	TechDir = "TD"
	FuncDir = "FD"

	// ManifestPath is the script ledger location inside an archive and
	// inside a project. It merges append-only; see the merge engine.
	ManifestPath = "Script/manifest.csv"
)

// Entry is one archive member. Path is a forward-slash relative path
// without a trailing separator; directory entries carry no content.
type Entry struct {
	Path    string
	IsDir   bool
	Content []byte
}

// EncodeOptions carries caller context into the rendered file bodies.
type EncodeOptions struct {
	// RootName labels the archive (stored as the zip comment).
	RootName string
	// VersionTag is the catalog snapshot the selection came from.
	VersionTag string
}

// Encode renders a selection as ordered archive entries: the two fixed
// empty directories, then per artifact type a directory entry followed
// by one file per component. Types and components are sorted so the
// same selection always encodes to the same entry sequence.
func Encode(ids []catalog.ComponentID, opts EncodeOptions) []Entry {
	entries := []Entry{
		{Path: TechDir, IsDir: true},
		{Path: FuncDir, IsDir: true},
	}

	byType := make(map[string][]catalog.ComponentID)
	for _, id := range ids {
		byType[id.Type] = append(byType[id.Type], id)
	}

	types := make([]string, 0, len(byType))
	for typ := range byType {
		types = append(types, typ)
	}
	sort.Strings(types)

	for _, typ := range types {
		entries = append(entries, Entry{Path: typ, IsDir: true})

		group := byType[typ]
		sort.Slice(group, func(i, j int) bool {
			return group[i].FileName() < group[j].FileName()
		})
		for _, id := range group {
			entries = append(entries, Entry{
				Path:    typ + "/" + id.FileName(),
				Content: []byte(renderComponent(id, opts)),
			})
		}
	}

	return entries
}

// renderComponent produces the deterministic textual body of a
// component file: the identity fields plus the caller's context.
func renderComponent(id catalog.ComponentID, opts EncodeOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "type=%s\n", id.Type)
	fmt.Fprintf(&b, "package=%s\n", id.Package)
	fmt.Fprintf(&b, "module=%s\n", id.Module)
	fmt.Fprintf(&b, "code=%s\n", id.Code)
	if opts.VersionTag != "" {
		fmt.Fprintf(&b, "vrc=%s\n", opts.VersionTag)
	}
	return b.String()
}
