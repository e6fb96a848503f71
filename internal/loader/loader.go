// SPDX-License-Identifier: MPL-2.0

// Package loader populates the catalog forest lazily from the remote
// depot.
//
// The loader owns the current forest snapshot. LoadRoots replaces it
// wholesale; LoadModuleChildren fills in one module's components on
// first access and serves the cached children afterwards. Fetch
// failures are logged and surface as empty results so that one broken
// module never takes down a browse or search; cancellations stay
// silent.
package loader

import (
	"context"
	"errors"
	"os"
	"sync"

	"depot-cli/internal/remote"
	"depot-cli/pkg/catalog"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "loader",
})

// Loader fetches and caches catalog tree levels on demand.
type Loader struct {
	svc        remote.Service
	versionTag string

	mu     sync.Mutex
	forest *catalog.Forest
}

// New creates a loader for one catalog snapshot. An empty versionTag is
// a missing prerequisite: loads return empty without calling the depot.
func New(svc remote.Service, versionTag string) *Loader {
	return &Loader{
		svc:        svc,
		versionTag: versionTag,
		forest:     catalog.NewForest(),
	}
}

// Forest returns the current forest snapshot.
func (l *Loader) Forest() *catalog.Forest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.forest
}

// LoadRoots replaces the forest from a fresh catalog fetch. On any
// fetch failure it returns an empty forest: browsing an unreachable
// depot shows an empty tree, not a crash. A canceled context also
// yields an empty forest, silently.
func (l *Loader) LoadRoots(ctx context.Context) *catalog.Forest {
	fresh := catalog.NewForest()

	if l.versionTag == "" {
		l.replaceForest(fresh)
		return fresh
	}

	index, err := l.svc.FetchCatalog(ctx, l.versionTag)
	if err != nil {
		if !isCanceled(err) {
			logger.Warn("catalog fetch failed", "vrc", l.versionTag, "err", err)
		}
		l.replaceForest(fresh)
		return fresh
	}

	for _, typeLabel := range sortedKeys(index) {
		root := fresh.AddRoot(typeLabel)
		for _, entry := range index[typeLabel] {
			pkg := fresh.AddPackage(root, entry.Package)
			for _, mod := range entry.Modules {
				fresh.AddModule(pkg, mod)
			}
		}
	}

	l.replaceForest(fresh)
	return fresh
}

// LoadModuleChildren returns the component children of a module node,
// fetching them from the depot on first access. The fetch is idempotent:
// already-populated children are returned without a remote call, and two
// racing populators settle on whichever fetch attached first.
func (l *Loader) LoadModuleChildren(ctx context.Context, moduleID catalog.NodeID) []catalog.NodeID {
	forest := l.Forest()

	node := forest.Node(moduleID)
	if node.Kind != catalog.KindModule {
		return nil
	}
	if children := forest.Children(moduleID); len(children) > 0 {
		return children
	}
	if l.versionTag == "" {
		return nil
	}

	ref := l.moduleRef(forest, moduleID)
	page, err := l.svc.FetchComponents(ctx, ref, l.versionTag)
	if err != nil {
		if !isCanceled(err) {
			logger.Warn("component fetch failed",
				"type", ref.Type, "package", ref.Package, "module", ref.Module, "err", err)
		}
		return nil
	}

	children := make([]catalog.NodeID, 0, len(page.Components))
	for _, rec := range page.Components {
		id := catalog.ComponentID{
			Type:    ref.Type,
			Package: ref.Package,
			Module:  ref.Module,
			Code:    rec.Code,
		}
		children = append(children, forest.AddComponent(moduleID, id, rec.Description))
	}

	return forest.SetModuleChildren(moduleID, children)
}

// ModulePaths lists every module node in the current forest. Used by the
// search engine to enumerate scan candidates.
func (l *Loader) ModulePaths() []catalog.NodeID {
	forest := l.Forest()
	var modules []catalog.NodeID
	for _, root := range forest.Roots() {
		for _, pkg := range forest.Children(root) {
			for _, mod := range forest.Children(pkg) {
				if forest.Node(mod).Kind == catalog.KindModule {
					modules = append(modules, mod)
				}
			}
		}
	}
	return modules
}

// ModuleRef resolves the (type, package, module) labels of a module node
// by walking its parent indices.
func (l *Loader) ModuleRef(moduleID catalog.NodeID) remote.ModuleRef {
	return l.moduleRef(l.Forest(), moduleID)
}

func (l *Loader) moduleRef(forest *catalog.Forest, moduleID catalog.NodeID) remote.ModuleRef {
	mod := forest.Node(moduleID)
	pkg := forest.Node(mod.Parent)
	root := forest.Node(pkg.Parent)
	return remote.ModuleRef{Type: root.Label, Package: pkg.Label, Module: mod.Label}
}

func (l *Loader) replaceForest(f *catalog.Forest) {
	l.mu.Lock()
	l.forest = f
	l.mu.Unlock()
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// sortedKeys keeps root ordering stable across refreshes; the depot's
// map payload has no inherent order.
func sortedKeys(index remote.CatalogIndex) []string {
	keys := maps.Keys(index)
	slices.Sort(keys)
	return keys
}
