// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"depot-cli/internal/config"
	"depot-cli/internal/issue"
	"depot-cli/internal/merge"
	"depot-cli/internal/remote"
	"depot-cli/internal/selection"
	"depot-cli/pkg/catalog"
	"depot-cli/pkg/transfer"

	"github.com/spf13/cobra"
)

var (
	importTicket string
	importTarget string
	importYes    bool
	importDryRun bool
)

var importCmd = &cobra.Command{
	Use:   "import <type:package:module:code>...",
	Short: "Import components into the local project",
	Long: `Import components into the local project.

The named components are requested from the depot as one archive for
the configured version tag, then merged into the project directory.
Files that already exist locally are listed and need confirmation
before they are overwritten; a declined import changes nothing.

Script components carry a manifest ledger (Script/manifest.csv) that
appends to the local ledger instead of replacing it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args)
	},
}

func init() {
	importCmd.Flags().StringVar(&importTicket, "ticket", "", "change ticket (PMC) recorded with the depot request")
	importCmd.Flags().StringVar(&importTarget, "target", "", "merge into this directory instead of the configured project_dir")
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "overwrite conflicting files without asking")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "print the archive layout instead of contacting the depot")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}

	sel, err := buildSelection(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if importDryRun {
		entries := transfer.Encode(sel.List(), transfer.EncodeOptions{VersionTag: cfg.VersionTag})
		for _, e := range entries {
			if e.IsDir {
				fmt.Fprintln(out, e.Path+"/")
			} else {
				fmt.Fprintln(out, IDStyle.Render(e.Path))
			}
		}
		return nil
	}

	target := importTarget
	if target == "" {
		target = cfg.ProjectDir
	}
	if target == "" {
		return issue.Context("import components").
			Resource("configuration").
			Suggest("set project_dir in the config file").
			Suggest("or pass --target").
			Wrap(config.ErrMissingProjectDir)
	}

	svc, err := newDepotService(cfg)
	if err != nil {
		return err
	}

	raw, err := svc.FetchArchive(cmd.Context(), remote.ArchiveRequest{
		Components: sel.List(),
		VersionTag: cfg.VersionTag,
		Ticket:     importTicket,
	})
	if err != nil {
		return issue.Context("fetch archive").
			Resource(fmt.Sprintf("%d components", sel.Len())).
			Suggest("check depot_url and your network connection").
			Wrap(err)
	}

	entries, err := transfer.Unzip(raw)
	if err != nil {
		return issue.Context("decode archive").
			Resource("depot response").
			Suggest("retry; the depot may have returned a truncated archive").
			Wrap(err)
	}

	outcome, err := merge.Merge(entries, target, confirmOverwrite(cmd))
	if err != nil {
		return err
	}
	if outcome.Declined {
		fmt.Fprintln(out, WarningStyle.Render("Import declined; project left untouched."))
		return &ExitError{Code: 1}
	}

	fmt.Fprintf(out, "%s Imported %d components into %s\n",
		SuccessStyle.Render("✓"), sel.Len(), target)
	fmt.Fprintf(out, "  %s\n", VerboseStyle.Render(
		fmt.Sprintf("%d files written, %d directories created", outcome.FilesWritten, outcome.DirsCreated)))
	if outcome.ManifestMerged {
		fmt.Fprintf(out, "  %s\n", VerboseStyle.Render("script manifest ledger updated"))
	}
	return nil
}

// buildSelection parses component specs into a selection set. The set
// deduplicates repeated specs by component identity.
func buildSelection(specs []string) (*selection.Set, error) {
	forest := catalog.NewForest()
	sel := selection.NewSet()

	for _, spec := range specs {
		id, err := catalog.ParseComponentID(spec)
		if err != nil {
			return nil, err
		}
		root := forest.AddRoot(id.Type)
		pkg := forest.AddPackage(root, id.Package)
		mod := forest.AddModule(pkg, id.Module)
		node := forest.AttachComponent(mod, id, "")
		ref := selection.Ref{Forest: forest, Node: node}
		// Repeated specs are harmless; toggling them off would not be.
		if !sel.IsSelected(ref) {
			sel.Toggle(ref)
		}
	}
	if sel.Len() == 0 {
		return nil, fmt.Errorf("nothing selected")
	}
	return sel, nil
}

// confirmOverwrite returns the merge confirmation callback: list the
// conflicting paths and ask, unless --yes was passed.
func confirmOverwrite(cmd *cobra.Command) merge.ConfirmFunc {
	return func(conflicts []string) bool {
		if importYes {
			return true
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, WarningStyle.Render(fmt.Sprintf("%d files already exist:", len(conflicts))))
		for _, path := range conflicts {
			fmt.Fprintf(out, "  %s\n", IDStyle.Render(path))
		}
		fmt.Fprint(out, "Overwrite? [y/N]: ")

		reader := bufio.NewReader(cmd.InOrStdin())
		answer, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
}
