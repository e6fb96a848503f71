// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for depot.
//
// This package implements the Cobra command hierarchy for the depot
// CLI: the root command plus subcommands for browsing the catalog,
// searching it, inspecting components, importing archives into a
// project, and managing configuration.
package cmd
