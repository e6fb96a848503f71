// SPDX-License-Identifier: MPL-2.0

// Package search scans the catalog for a term across many modules in
// parallel.
//
// Component identifiers conventionally read <package><module><code>, so
// the first characters of a sufficiently long term usually pin down the
// (package, module) pair. The engine exploits that: candidate modules
// are pruned by a prefix heuristic before any fetch happens, and only
// the survivors are scanned by a fixed-size worker pool that shares the
// loader's cache with interactive expansion.
//
// When the prefix heuristic leaves no candidate at all, the engine falls
// back to scanning every module. The fallback is deliberate: a term that
// defeats the naming convention (e.g., a match on a description) would
// otherwise silently find nothing.
package search

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"depot-cli/internal/loader"
	"depot-cli/pkg/catalog"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// MinTermLength is the shortest searchable term. Shorter terms are too
// unselective for a remote-backed scan to be affordable; the engine
// rejects them without issuing a single fetch.
const MinTermLength = 5

// prefixLength is how many leading characters of the term feed the
// package/module pruning heuristic.
const prefixLength = 5

// DefaultWorkers is the fixed worker pool size when none is configured.
const DefaultWorkers = 8

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "search",
})

type (
	// Progress is called after every module path finishes, whether it
	// succeeded, failed, or was skipped by cancellation. Calls are
	// serialized.
	Progress func(processed, total int)

	// Match is one component hit, detached from its source tree.
	Match struct {
		ID          catalog.ComponentID
		Description string
	}

	// Result is the grouped outcome of one search.
	Result struct {
		// Buckets maps an artifact type to its matches. Match order
		// within a bucket follows worker completion order.
		Buckets map[string][]Match
		// Processed and Total describe how far the scan got.
		Processed, Total int
		// Canceled reports that the scan stopped early on request.
		Canceled bool
	}

	// Engine runs concurrent catalog searches.
	Engine struct {
		loader   *loader.Loader
		workers  int
		progress Progress
	}

	// Options configures an Engine.
	Options struct {
		// Workers sets the worker pool size; 0 means DefaultWorkers.
		Workers int
		// Progress receives scan progress. Optional.
		Progress Progress
	}
)

// New creates a search engine over the loader's current forest.
func New(l *loader.Loader, opts Options) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Engine{loader: l, workers: workers, progress: opts.Progress}
}

// Search scans the catalog for term. typeFilter restricts the scan to
// one artifact type when non-empty. The returned result is never nil;
// a canceled search returns whatever buckets completed before the
// cancellation with Canceled set.
func (e *Engine) Search(ctx context.Context, term, typeFilter string) *Result {
	result := &Result{Buckets: make(map[string][]Match)}

	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinTermLength {
		return result
	}
	needle := strings.ToLower(term)

	candidates := e.candidateModules(needle, typeFilter)
	result.Total = len(candidates)
	if result.Total == 0 {
		return result
	}

	var (
		claim     atomic.Int64
		processed atomic.Int64
		mu        sync.Mutex // guards result.Buckets and progress calls
		wg        sync.WaitGroup
	)

	workers := e.workers
	if workers > len(candidates) {
		workers = len(candidates)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make(map[string][]Match)

			for {
				// Cancellation stops claiming new paths; in-flight
				// fetches unwind through their own context.
				if ctx.Err() != nil {
					break
				}
				next := int(claim.Add(1)) - 1
				if next >= len(candidates) {
					break
				}

				moduleID := candidates[next]
				e.scanModule(ctx, moduleID, needle, local)

				// Increment and report under one lock so progress
				// values reach the callback in order.
				mu.Lock()
				done := int(processed.Add(1))
				if e.progress != nil {
					e.progress(done, len(candidates))
				}
				mu.Unlock()
			}

			// Merge the worker-local buckets once, at the end.
			mu.Lock()
			for typ, matches := range local {
				result.Buckets[typ] = append(result.Buckets[typ], matches...)
			}
			mu.Unlock()
		}()
	}

	wg.Wait()

	result.Processed = int(processed.Load())
	result.Canceled = ctx.Err() != nil
	return result
}

// scanModule fetches one module's components through the shared loader
// cache and collects case-insensitive substring matches. A failed fetch
// yields no children; the loader already logged it, and the module still
// counts as processed.
func (e *Engine) scanModule(ctx context.Context, moduleID catalog.NodeID, needle string, sink map[string][]Match) {
	children := e.loader.LoadModuleChildren(ctx, moduleID)
	if len(children) == 0 {
		return
	}

	forest := e.loader.Forest()
	for _, childID := range children {
		node := forest.Node(childID)
		if node.Kind != catalog.KindComponent {
			continue
		}
		if matchesComponent(node, needle) {
			sink[node.ID.Type] = append(sink[node.ID.Type], Match{
				ID:          node.ID,
				Description: node.Description,
			})
		}
	}
}

func matchesComponent(node catalog.Node, needle string) bool {
	return strings.Contains(strings.ToLower(node.Label), needle) ||
		strings.Contains(strings.ToLower(node.ID.Code), needle) ||
		strings.Contains(strings.ToLower(node.Description), needle)
}

// candidateModules prunes module paths with the prefix heuristic. The
// survivors are the (package, module) pairs whose package label, module
// label, or concatenation contains the lowercase term's first
// prefixLength characters. Zero survivors fall back to the full module
// list.
func (e *Engine) candidateModules(needle, typeFilter string) []catalog.NodeID {
	forest := e.loader.Forest()

	var all []catalog.NodeID
	for _, moduleID := range e.loader.ModulePaths() {
		if typeFilter != "" {
			ref := e.loader.ModuleRef(moduleID)
			if !strings.EqualFold(ref.Type, typeFilter) {
				continue
			}
		}
		all = append(all, moduleID)
	}

	// The prefix is counted in runes so multibyte terms never get
	// sliced mid-character.
	prefix := needle
	if runes := []rune(prefix); len(runes) > prefixLength {
		prefix = string(runes[:prefixLength])
	}

	var pruned []catalog.NodeID
	for _, moduleID := range all {
		mod := forest.Node(moduleID)
		pkg := forest.Node(mod.Parent)
		pkgLabel := strings.ToLower(pkg.Label)
		modLabel := strings.ToLower(mod.Label)
		if strings.Contains(pkgLabel, prefix) ||
			strings.Contains(modLabel, prefix) ||
			strings.Contains(pkgLabel+modLabel, prefix) {
			pruned = append(pruned, moduleID)
		}
	}

	if len(pruned) == 0 && len(all) > 0 {
		logger.Debug("prefix pruning left no candidates, scanning all modules", "prefix", prefix, "modules", len(all))
		return all
	}
	return pruned
}

// Forest renders the result as a synthetic tree: one root per artifact
// type, labeled with its match count, with the matched components
// attached directly underneath.
func (r *Result) Forest() *catalog.Forest {
	f := catalog.NewForest()
	types := maps.Keys(r.Buckets)
	slices.Sort(types)
	for _, typ := range types {
		matches := r.Buckets[typ]
		root := f.AddRoot(fmt.Sprintf("%s (%d)", typ, len(matches)))
		for _, m := range matches {
			f.AttachComponent(root, m.ID, m.Description)
		}
	}
	return f
}

// Count returns the total number of matches across buckets.
func (r *Result) Count() int {
	n := 0
	for _, matches := range r.Buckets {
		n += len(matches)
	}
	return n
}
