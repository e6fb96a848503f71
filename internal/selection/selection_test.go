// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"testing"

	"depot-cli/pkg/catalog"
)

func componentRef(t *testing.T, code string) Ref {
	t.Helper()
	f := catalog.NewForest()
	root := f.AddRoot("Table")
	pkg := f.AddPackage(root, "td")
	mod := f.AddModule(pkg, "ext")
	id := catalog.ComponentID{Type: "Table", Package: "td", Module: "ext", Code: code}
	comp := f.AddComponent(mod, id, "desc")
	f.SetModuleChildren(mod, []catalog.NodeID{comp})
	return Ref{Forest: f, Node: comp}
}

func TestToggle(t *testing.T) {
	s := NewSet()
	ref := componentRef(t, "0010m000")

	if !s.Toggle(ref) {
		t.Fatal("first toggle must select")
	}
	if !s.IsSelected(ref) {
		t.Error("component should be selected")
	}
	if s.Toggle(ref) {
		t.Fatal("second toggle must deselect")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestToggleIgnoresNonComponentNodes(t *testing.T) {
	s := NewSet()
	f := catalog.NewForest()
	root := f.AddRoot("Table")

	if s.Toggle(Ref{Forest: f, Node: root}) {
		t.Error("toggling a root node must not select anything")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestDeduplicatedByIdentity(t *testing.T) {
	s := NewSet()
	// Two distinct node instances carrying the same identity.
	a := componentRef(t, "0010m000")
	b := componentRef(t, "0010m000")

	s.Toggle(a)
	if !s.IsSelected(b) {
		t.Error("selection must be visible through any node with the same identity")
	}
	// Toggling through the second instance deselects (same identity).
	s.Toggle(b)
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestRemoveByStructuralIdentityAcrossRebuild(t *testing.T) {
	s := NewSet()
	original := componentRef(t, "0010m000")
	s.Toggle(original)

	// Simulate a tree rebuild: a brand new forest and node instance for
	// the same logical component.
	rebuilt := componentRef(t, "0010m000")
	if !s.Remove(rebuilt) {
		t.Fatal("remove via the rebuilt node must match by identity")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0 after remove", s.Len())
	}
}

func TestRemoveMissingReturnsFalse(t *testing.T) {
	s := NewSet()
	if s.Remove(componentRef(t, "0010m000")) {
		t.Error("removing from an empty set must report false")
	}
}

func TestListenersNotifiedSynchronously(t *testing.T) {
	s := NewSet()
	ref := componentRef(t, "0010m000")

	calls := 0
	s.Subscribe(func() { calls++ })

	s.Toggle(ref) // select
	s.Toggle(ref) // deselect
	s.Toggle(ref) // select
	s.Clear()
	s.Clear() // no-op, no notification

	if calls != 4 {
		t.Errorf("listener called %d times, want 4", calls)
	}
}

func TestListSnapshot(t *testing.T) {
	s := NewSet()
	s.Toggle(componentRef(t, "0010m000"))
	s.Toggle(componentRef(t, "0020m000"))

	ids := s.List()
	if len(ids) != 2 {
		t.Fatalf("List returned %d identities, want 2", len(ids))
	}
	seen := map[string]bool{}
	for _, id := range ids {
		seen[id.Code] = true
	}
	if !seen["0010m000"] || !seen["0020m000"] {
		t.Errorf("List = %v", ids)
	}
}
