// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"fmt"
	"strings"
)

// ComponentID uniquely identifies one artifact in the remote catalog.
// Equality is structural: two IDs are the same component when all four
// fields match, regardless of which tree node instance carries them.
type ComponentID struct {
	// Type is the artifact type label (e.g., "Table", "Session", "Script").
	Type string
	// Package is the package code the component belongs to.
	Package string
	// Module is the module code within the package.
	Module string
	// Code is the component code within the module.
	Code string
}

// ScriptType is the artifact type whose components are 4GL scripts.
// Script components are materialized with a ".bc" extension and are
// tracked in the manifest ledger.
const ScriptType = "Script"

// FileName returns the on-disk file name for the component, following the
// <package><module><code>.<ext> convention used by the archive layout.
func (id ComponentID) FileName() string {
	return id.Package + id.Module + id.Code + id.Ext()
}

// Ext returns the file extension for the component's artifact type.
func (id ComponentID) Ext() string {
	if id.Type == ScriptType {
		return ".bc"
	}
	return ".txt"
}

// String renders the identity in the colon-separated form accepted by the
// CLI (type:package:module:code).
func (id ComponentID) String() string {
	return id.Type + ":" + id.Package + ":" + id.Module + ":" + id.Code
}

// IsZero reports whether the identity is empty.
func (id ComponentID) IsZero() bool {
	return id == ComponentID{}
}

// ParseComponentID parses a colon-separated component spec
// (type:package:module:code). All four segments must be non-empty.
func ParseComponentID(spec string) (ComponentID, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 4 {
		return ComponentID{}, fmt.Errorf("component spec %q must have exactly 4 colon-separated segments (type:package:module:code)", spec)
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return ComponentID{}, fmt.Errorf("component spec %q has an empty segment", spec)
		}
	}
	return ComponentID{
		Type:    parts[0],
		Package: parts[1],
		Module:  parts[2],
		Code:    parts[3],
	}, nil
}
