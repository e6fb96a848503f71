// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"depot-cli/internal/loader"
	"depot-cli/pkg/catalog"

	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse [type] [package] [module]",
	Short: "Browse the depot catalog",
	Long: `Browse the depot catalog.

Without arguments the full type/package/module hierarchy is printed.
Naming a type, package, or module narrows the listing to that branch;
naming a module fetches and lists its components.

Component listings are fetched lazily and cached for the session, so
repeated listings of the same module do not hit the depot again.`,
	Args: cobra.MaximumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ldr, _, err := newCatalogLoader(cmd.Context())
		if err != nil {
			return err
		}
		return runBrowse(cmd, ldr, args)
	},
}

func runBrowse(cmd *cobra.Command, ldr *loader.Loader, args []string) error {
	ctx := cmd.Context()
	forest := ldr.LoadRoots(ctx)
	if len(forest.Roots()) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("(catalog is empty)"))
		return nil
	}

	node, err := descend(forest, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if node != catalog.InvalidNode && forest.Node(node).Kind == catalog.KindModule {
		// Module level: lazy-load and list components.
		children := ldr.LoadModuleChildren(ctx, node)
		fmt.Fprintln(out, TitleStyle.Render(strings.Join(args, "/")))
		if len(children) == 0 {
			fmt.Fprintln(out, SubtitleStyle.Render("  (no components)"))
			return nil
		}
		for _, childID := range children {
			child := forest.Node(childID)
			fmt.Fprintf(out, "  %s  %s\n",
				IDStyle.Render(child.Label),
				SubtitleStyle.Render(child.Description))
		}
		return nil
	}

	printBranch(cmd, forest, node, args)
	return nil
}

// descend resolves path arguments to a node, InvalidNode meaning the
// whole catalog.
func descend(forest *catalog.Forest, args []string) (catalog.NodeID, error) {
	current := catalog.InvalidNode
	for depth, label := range args {
		next := findChild(forest, current, label)
		if next == catalog.InvalidNode {
			level := [...]string{"artifact type", "package", "module"}[depth]
			return catalog.InvalidNode, fmt.Errorf("unknown %s %q", level, label)
		}
		current = next
	}
	return current, nil
}

// findChild locates a child of parent by label; parent InvalidNode
// searches the roots.
func findChild(forest *catalog.Forest, parent catalog.NodeID, label string) catalog.NodeID {
	var candidates []catalog.NodeID
	if parent == catalog.InvalidNode {
		candidates = forest.Roots()
	} else {
		candidates = forest.Children(parent)
	}
	for _, id := range candidates {
		if forest.Node(id).Label == label {
			return id
		}
	}
	return catalog.InvalidNode
}

// printBranch prints the hierarchy below node (or the full catalog for
// InvalidNode) without fetching any component listings.
func printBranch(cmd *cobra.Command, forest *catalog.Forest, node catalog.NodeID, args []string) {
	out := cmd.OutOrStdout()
	if node == catalog.InvalidNode {
		for _, root := range forest.Roots() {
			printSubtree(cmd, forest, root, 0)
		}
		return
	}
	if parent := strings.Join(args[:len(args)-1], "/"); parent != "" {
		fmt.Fprintln(out, SubtitleStyle.Render(parent))
	}
	printSubtree(cmd, forest, node, 0)
}

func printSubtree(cmd *cobra.Command, forest *catalog.Forest, id catalog.NodeID, depth int) {
	out := cmd.OutOrStdout()
	node := forest.Node(id)
	indent := strings.Repeat("  ", depth)

	switch node.Kind {
	case catalog.KindRoot:
		fmt.Fprintln(out, indent+TitleStyle.Render(node.Label))
	case catalog.KindModule:
		fmt.Fprintln(out, indent+IDStyle.Render(node.Label))
		return // components load on demand, never while printing the tree
	default:
		fmt.Fprintln(out, indent+node.Label)
	}

	for _, child := range forest.Children(id) {
		printSubtree(cmd, forest, child, depth+1)
	}
}
