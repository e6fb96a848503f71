// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"depot-cli/internal/issue"
	"depot-cli/internal/remote"
	"depot-cli/internal/tui"
	"depot-cli/pkg/catalog"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <type:package:module:code>",
	Short: "Show details for one component",
	Long: `Show details for one component.

The component is addressed by its full identity, for example
Table:td:ext:0010m000. The description is fetched from the depot and
rendered as markdown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(cmd, args[0])
	},
}

func runInfo(cmd *cobra.Command, spec string) error {
	id, err := catalog.ParseComponentID(spec)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}
	svc, err := newDepotService(cfg)
	if err != nil {
		return err
	}

	ref := remote.ModuleRef{Type: id.Type, Package: id.Package, Module: id.Module}
	page, err := svc.FetchComponents(cmd.Context(), ref, cfg.VersionTag)
	if err != nil {
		return issue.Context("fetch component details").
			Resource(spec).
			Suggest("check depot_url and your network connection").
			Suggest("verify version_tag names an existing catalog snapshot").
			Wrap(err)
	}

	var record *remote.ComponentRecord
	for i := range page.Components {
		if page.Components[i].Code == id.Code {
			record = &page.Components[i]
			break
		}
	}
	if record == nil {
		return fmt.Errorf("component %s not found in module %s/%s/%s", spec, id.Type, id.Package, id.Module)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render(id.String()))
	fmt.Fprintf(out, "%s %s\n", SubtitleStyle.Render("file:"), IDStyle.Render(id.FileName()))
	if cfg.VersionTag != "" {
		fmt.Fprintf(out, "%s %s\n", SubtitleStyle.Render("vrc:"), cfg.VersionTag)
	}

	if record.Description == "" {
		fmt.Fprintln(out, SubtitleStyle.Render("(no description)"))
		return nil
	}

	rendered, err := tui.Markdown(record.Description, tui.MarkdownOptions{Width: 80})
	if err != nil {
		// Fall back to the raw text when the terminal renderer fails.
		fmt.Fprintln(out, record.Description)
		return nil
	}
	fmt.Fprint(out, rendered)
	return nil
}
