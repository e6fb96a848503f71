// SPDX-License-Identifier: MPL-2.0

// Package selection tracks the set of components marked for import.
//
// Membership is keyed by structural component identity, not by node
// instance: the same logical component stays selected (and removable)
// across forest rebuilds that produce fresh node instances for it.
package selection

import (
	"sync"

	"depot-cli/pkg/catalog"

	"golang.org/x/exp/maps"
)

// Ref points at one node inside a specific forest snapshot.
type Ref struct {
	Forest *catalog.Forest
	Node   catalog.NodeID
}

// Listener is notified synchronously after every mutation that changed
// the set.
type Listener func()

// Set is the deduplicated collection of selected components.
type Set struct {
	mu        sync.Mutex
	items     map[catalog.ComponentID]Ref
	listeners []Listener
}

// NewSet returns an empty selection.
func NewSet() *Set {
	return &Set{items: make(map[catalog.ComponentID]Ref)}
}

// Subscribe registers a listener for selection changes.
func (s *Set) Subscribe(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Toggle flips membership for a component node. Nodes of any other kind
// are ignored. Returns true if the node is selected afterwards.
func (s *Set) Toggle(ref Ref) bool {
	node := ref.Forest.Node(ref.Node)
	if node.Kind != catalog.KindComponent {
		return false
	}

	s.mu.Lock()
	_, selected := s.items[node.ID]
	if selected {
		delete(s.items, node.ID)
	} else {
		s.items[node.ID] = ref
	}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners)
	return !selected
}

// IsSelected reports whether the component the node represents is in
// the set.
func (s *Set) IsSelected(ref Ref) bool {
	node := ref.Forest.Node(ref.Node)
	if node.Kind != catalog.KindComponent {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[node.ID]
	return ok
}

// Remove drops the component the node represents. Structural identity
// match comes first, so a fresh node produced by a tree rebuild removes
// the originally selected one; the fallback matches the exact instance
// for nodes that carry no identity match. Returns true if something was
// removed.
func (s *Set) Remove(ref Ref) bool {
	node := ref.Forest.Node(ref.Node)

	s.mu.Lock()
	removed := false
	if !node.ID.IsZero() {
		if _, ok := s.items[node.ID]; ok {
			delete(s.items, node.ID)
			removed = true
		}
	}
	if !removed {
		for id, stored := range s.items {
			if stored == ref {
				delete(s.items, id)
				removed = true
				break
			}
		}
	}
	var listeners []Listener
	if removed {
		listeners = s.snapshotListeners()
	}
	s.mu.Unlock()

	notify(listeners)
	return removed
}

// Clear empties the selection.
func (s *Set) Clear() {
	s.mu.Lock()
	changed := len(s.items) > 0
	maps.Clear(s.items)
	var listeners []Listener
	if changed {
		listeners = s.snapshotListeners()
	}
	s.mu.Unlock()

	notify(listeners)
}

// List returns the selected identities. Order is unspecified.
func (s *Set) List() []catalog.ComponentID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Keys(s.items)
}

// Len returns the number of selected components.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Set) snapshotListeners() []Listener {
	return append([]Listener(nil), s.listeners...)
}

func notify(listeners []Listener) {
	for _, fn := range listeners {
		fn()
	}
}
