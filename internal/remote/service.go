// SPDX-License-Identifier: MPL-2.0

package remote

import (
	"context"

	"depot-cli/pkg/catalog"
)

type (
	// PackageEntry lists the modules of one package within an artifact type.
	PackageEntry struct {
		// Package is the package code.
		Package string `json:"package"`
		// Modules are the module codes under the package.
		Modules []string `json:"modules"`
	}

	// CatalogIndex maps an artifact type label to its packages and
	// modules. Component leaves are fetched separately, per module.
	CatalogIndex map[string][]PackageEntry

	// ModuleRef addresses one module within the catalog.
	ModuleRef struct {
		Type    string
		Package string
		Module  string
	}

	// ComponentRecord is one component as reported by the depot.
	ComponentRecord struct {
		// Code is the component code within the module.
		Code string `json:"code"`
		// Description is the human-readable component description.
		Description string `json:"description"`
	}

	// ComponentPage is the depot's answer to a per-module component fetch.
	ComponentPage struct {
		Package    string            `json:"package"`
		Module     string            `json:"module"`
		Components []ComponentRecord `json:"components"`
	}

	// ArchiveRequest asks the depot to assemble an archive for a
	// component selection.
	ArchiveRequest struct {
		// Components are the selected component identities.
		Components []catalog.ComponentID
		// VersionTag selects the catalog snapshot (VRC).
		VersionTag string
		// Ticket is an optional change-request identifier scoping the
		// version tag lookup; passed through opaque.
		Ticket string
	}

	// Service is the remote depot collaborator. All calls honor context
	// cancellation; a canceled call returns ctx.Err() so callers can
	// distinguish aborts from failures.
	Service interface {
		// FetchCatalog returns the Type → Package → Module index for a
		// catalog snapshot.
		FetchCatalog(ctx context.Context, versionTag string) (CatalogIndex, error)

		// FetchComponents returns the components of one module.
		FetchComponents(ctx context.Context, ref ModuleRef, versionTag string) (ComponentPage, error)

		// FetchArchive returns the raw archive bytes for a selection.
		FetchArchive(ctx context.Context, req ArchiveRequest) ([]byte, error)
	}
)
