// SPDX-License-Identifier: MPL-2.0

// Package remote defines the contracts the depot CLI expects from the
// remote component depot and provides the HTTP implementation plus an
// LRU caching decorator.
//
// The depot itself is an external collaborator: this package only fixes
// the shape of the three calls the core engines need (catalog index,
// component pages, archive transfer) so they can be faked in tests.
package remote
