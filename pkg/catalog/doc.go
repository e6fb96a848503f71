// SPDX-License-Identifier: MPL-2.0

// Package catalog defines the in-memory model of the remote component
// catalog: component identities and the four-level browse tree
// (Type → Package → Module → Component).
//
// The tree is stored as an arena of nodes addressed by index. Parent
// references are indices into the same arena, set at construction and
// never mutated; a top-level refresh replaces the whole forest rather
// than patching nodes in place.
package catalog
