// SPDX-License-Identifier: MPL-2.0

package catalog

import "sync"

// Kind distinguishes the four node levels of the browse tree.
type Kind int

const (
	// KindRoot is a top-level node labeled with an artifact type.
	KindRoot Kind = iota
	// KindPackage is a second-level node labeled with a package code.
	KindPackage
	// KindModule is a third-level node labeled with a module code.
	// Its children are populated lazily on first expansion.
	KindModule
	// KindComponent is a leaf node carrying a ComponentID.
	KindComponent
)

// NodeID addresses a node inside a Forest arena.
type NodeID int

// InvalidNode is the NodeID of a node that does not exist (e.g., the
// parent of a root).
const InvalidNode NodeID = -1

// Node is one entry in the forest arena. Parent is set at construction
// and never changes; Children of a module node transition exactly once
// from nil to a fully fetched slice.
type Node struct {
	Kind     Kind
	Label    string
	Parent   NodeID
	Children []NodeID

	// ID is set only on component nodes.
	ID ComponentID
	// Description is set only on component nodes.
	Description string
}

// Forest is an arena of catalog nodes. A forest instance represents one
// snapshot of the remote catalog; refreshing builds a new forest instead
// of mutating this one. The only structural mutation after construction
// is the set-if-empty population of module children, which is guarded so
// that concurrent populators of the same module are idempotent.
type Forest struct {
	mu    sync.Mutex
	nodes []Node
	roots []NodeID
}

// NewForest returns an empty forest.
func NewForest() *Forest {
	return &Forest{}
}

// AddRoot appends a top-level node for an artifact type.
func (f *Forest) AddRoot(label string) NodeID {
	return f.add(Node{Kind: KindRoot, Label: label, Parent: InvalidNode}, InvalidNode, true)
}

// AddPackage appends a package node under a root.
func (f *Forest) AddPackage(root NodeID, label string) NodeID {
	return f.add(Node{Kind: KindPackage, Label: label, Parent: root}, root, false)
}

// AddModule appends a module node under a package. Its children start
// out absent; see SetModuleChildren.
func (f *Forest) AddModule(pkg NodeID, label string) NodeID {
	return f.add(Node{Kind: KindModule, Label: label, Parent: pkg}, pkg, false)
}

// AddComponent appends a component leaf under a module node that is
// being populated. The caller hands the resulting IDs to
// SetModuleChildren; AddComponent itself does not link the child.
func (f *Forest) AddComponent(module NodeID, id ComponentID, description string) NodeID {
	return f.add(Node{
		Kind:        KindComponent,
		Label:       id.FileName(),
		Parent:      module,
		ID:          id,
		Description: description,
	}, InvalidNode, false)
}

// AttachComponent appends a component leaf directly under parent and
// links it immediately. Used for synthetic result trees (search output)
// where components hang off a per-type root instead of a module.
func (f *Forest) AttachComponent(parent NodeID, id ComponentID, description string) NodeID {
	return f.add(Node{
		Kind:        KindComponent,
		Label:       id.FileName(),
		Parent:      parent,
		ID:          id,
		Description: description,
	}, parent, false)
}

func (f *Forest) add(n Node, parent NodeID, isRoot bool) NodeID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := NodeID(len(f.nodes))
	f.nodes = append(f.nodes, n)
	if isRoot {
		f.roots = append(f.roots, id)
	} else if parent != InvalidNode {
		f.nodes[parent].Children = append(f.nodes[parent].Children, id)
	}
	return id
}

// SetModuleChildren populates a module node's children if they are still
// absent. The first caller wins; later callers (e.g., a search worker
// racing an interactive expansion) find the node already populated and
// their fetched copy is discarded. Returns the children that ended up
// attached either way.
func (f *Forest) SetModuleChildren(module NodeID, children []NodeID) []NodeID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.nodes[module].Children) == 0 {
		f.nodes[module].Children = children
	}
	return f.nodes[module].Children
}

// Node returns a copy of the node at id. IDs outside the arena, such
// as one held across a forest replacement, yield the zero Node instead
// of panicking.
func (f *Forest) Node(id NodeID) Node {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id < 0 || int(id) >= len(f.nodes) {
		return Node{Parent: InvalidNode}
	}
	return f.nodes[id]
}

// Roots returns the top-level nodes in insertion order.
func (f *Forest) Roots() []NodeID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]NodeID(nil), f.roots...)
}

// Children returns the child IDs of a node in insertion order. IDs
// outside the arena have no children.
func (f *Forest) Children(id NodeID) []NodeID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id < 0 || int(id) >= len(f.nodes) {
		return nil
	}
	return append([]NodeID(nil), f.nodes[id].Children...)
}

// Len returns the number of nodes in the arena.
func (f *Forest) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.nodes)
}

// Path walks parent references from id up to its root and returns the
// labels from root to id. Useful for rendering the location of a search
// hit without holding real back-pointers.
func (f *Forest) Path(id NodeID) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var labels []string
	for cur := id; cur != InvalidNode; cur = f.nodes[cur].Parent {
		labels = append(labels, f.nodes[cur].Label)
	}
	// Reverse in place: collected leaf-first.
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return labels
}
