// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"sort"
	"unicode/utf8"

	"depot-cli/internal/search"

	"github.com/spf13/cobra"
)

var (
	searchType string
	searchTree bool
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search the catalog for components",
	Long: fmt.Sprintf(`Search the catalog for components.

The term is matched case-insensitively against component codes and
descriptions. Terms shorter than %d characters are rejected; anything
that short would match most of the catalog.

Module listings are fetched with a bounded worker pool and cached, so
a search warms the same cache browsing uses. Interrupting a search
keeps the results gathered so far.`, search.MinTermLength),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, args[0])
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "restrict the search to one artifact type")
	searchCmd.Flags().BoolVar(&searchTree, "tree", false, "print matches as a result tree instead of a flat list")
}

func runSearch(cmd *cobra.Command, term string) error {
	if utf8.RuneCountInString(term) < search.MinTermLength {
		return fmt.Errorf("search term must be at least %d characters", search.MinTermLength)
	}

	ldr, cfg, err := newCatalogLoader(cmd.Context())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ldr.LoadRoots(ctx)

	// Progress goes to stderr so stdout stays clean for the results.
	progress := func(processed, total int) {
		fmt.Fprintf(os.Stderr, "\rscanning modules %d/%d", processed, total)
		if processed == total {
			fmt.Fprintln(os.Stderr)
		}
	}

	engine := search.New(ldr, search.Options{
		Workers:  cfg.Search.Workers,
		Progress: progress,
	})
	result := engine.Search(ctx, term, searchType)

	out := cmd.OutOrStdout()
	if result.Total == 0 {
		fmt.Fprintln(out, SubtitleStyle.Render("(nothing to search)"))
		return nil
	}

	if result.Canceled {
		fmt.Fprintln(os.Stderr, WarningStyle.Render(
			fmt.Sprintf("search interrupted after %d/%d modules; partial results follow",
				result.Processed, result.Total)))
	}

	if result.Count() == 0 {
		fmt.Fprintln(out, SubtitleStyle.Render(fmt.Sprintf("no matches for %q", term)))
		return nil
	}

	if searchTree {
		forest := result.Forest()
		for _, root := range forest.Roots() {
			fmt.Fprintln(out, TitleStyle.Render(forest.Node(root).Label))
			for _, child := range forest.Children(root) {
				node := forest.Node(child)
				fmt.Fprintf(out, "  %s  %s\n",
					IDStyle.Render(node.Label),
					SubtitleStyle.Render(node.Description))
			}
		}
		return nil
	}

	types := make([]string, 0, len(result.Buckets))
	for typ := range result.Buckets {
		types = append(types, typ)
	}
	sort.Strings(types)

	for _, typ := range types {
		matches := result.Buckets[typ]
		fmt.Fprintln(out, TitleStyle.Render(fmt.Sprintf("%s (%d)", typ, len(matches))))
		for _, m := range matches {
			fmt.Fprintf(out, "  %s  %s\n",
				IDStyle.Render(m.ID.String()),
				SubtitleStyle.Render(m.Description))
		}
	}
	return nil
}
