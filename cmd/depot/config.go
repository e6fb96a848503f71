// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"depot-cli/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage depot configuration",
	Long: `Manage depot configuration.

Configuration is stored in:
  - Linux: ~/.config/depot/config.cue
  - macOS: ~/Library/Application Support/depot/config.cue
  - Windows: %APPDATA%\depot\config.cue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd)
		},
	})
}

func showConfig(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}

	keyStyle := IDStyle
	valueStyle := SuccessStyle
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	path, pathErr := config.ResolvedPath()
	if pathErr == nil && fileExistsCheck(path) {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("depot_url"), valueStyle.Render(orNone(cfg.DepotURL)))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("auth_token_env"), valueStyle.Render(orNone(cfg.AuthTokenEnv)))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("version_tag"), valueStyle.Render(orNone(cfg.VersionTag)))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("project_dir"), valueStyle.Render(orNone(cfg.ProjectDir)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("search"))
	fmt.Fprintf(out, "  workers: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Search.Workers)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(out, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func showConfigPath(cmd *cobra.Command) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	path, err := config.ResolvedPath()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(out, "Config file: %s\n", path)
	return nil
}

func orNone(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
