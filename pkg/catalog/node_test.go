// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"reflect"
	"testing"
)

func buildSmallForest(t *testing.T) (*Forest, NodeID) {
	t.Helper()
	f := NewForest()
	root := f.AddRoot("Table")
	pkg := f.AddPackage(root, "td")
	mod := f.AddModule(pkg, "ext")
	return f, mod
}

func TestForestStructure(t *testing.T) {
	f, mod := buildSmallForest(t)

	roots := f.Roots()
	if len(roots) != 1 {
		t.Fatalf("got %d roots, want 1", len(roots))
	}
	if got := f.Node(roots[0]).Label; got != "Table" {
		t.Errorf("root label = %q, want %q", got, "Table")
	}
	if got := f.Node(mod).Kind; got != KindModule {
		t.Errorf("module kind = %v, want KindModule", got)
	}
	if got := f.Node(mod).Parent; f.Node(got).Label != "td" {
		t.Errorf("module parent label = %q, want %q", f.Node(got).Label, "td")
	}
}

func TestStaleNodeIDsAreHarmless(t *testing.T) {
	_, mod := buildSmallForest(t)

	// A NodeID held across a catalog refresh points into a smaller (or
	// empty) arena; lookups degrade to nothing instead of panicking.
	fresh := NewForest()
	for _, id := range []NodeID{mod, InvalidNode, NodeID(999)} {
		node := fresh.Node(id)
		if node.Label != "" || node.Kind != KindRoot || node.Parent != InvalidNode {
			t.Errorf("Node(%d) = %+v, want zero node", id, node)
		}
		if children := fresh.Children(id); children != nil {
			t.Errorf("Children(%d) = %v, want nil", id, children)
		}
	}
}

func TestSetModuleChildrenFirstWriterWins(t *testing.T) {
	f, mod := buildSmallForest(t)

	id := ComponentID{Type: "Table", Package: "td", Module: "ext", Code: "0010m000"}
	first := []NodeID{f.AddComponent(mod, id, "first fetch")}
	second := []NodeID{f.AddComponent(mod, id, "second fetch")}

	got := f.SetModuleChildren(mod, first)
	if !reflect.DeepEqual(got, first) {
		t.Fatalf("first populate returned %v, want %v", got, first)
	}

	// A racing second populate must not replace the cached children.
	got = f.SetModuleChildren(mod, second)
	if !reflect.DeepEqual(got, first) {
		t.Errorf("second populate returned %v, want cached %v", got, first)
	}
	if !reflect.DeepEqual(f.Children(mod), first) {
		t.Errorf("children = %v, want %v", f.Children(mod), first)
	}
}

func TestPathWalksToRoot(t *testing.T) {
	f, mod := buildSmallForest(t)
	id := ComponentID{Type: "Table", Package: "td", Module: "ext", Code: "0010m000"}
	comp := f.AddComponent(mod, id, "desc")
	f.SetModuleChildren(mod, []NodeID{comp})

	want := []string{"Table", "td", "ext", "tdext0010m000.txt"}
	if got := f.Path(comp); !reflect.DeepEqual(got, want) {
		t.Errorf("Path() = %v, want %v", got, want)
	}
}
