// SPDX-License-Identifier: MPL-2.0

package remote

import (
	"context"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// componentCacheSize bounds the number of cached component pages. A
// catalog rarely has more than a few thousand modules.
const componentCacheSize = 4096

// CachingService decorates a Service with an LRU cache over
// FetchComponents, so a search revisiting modules the user already
// expanded (or vice versa) does not hit the depot twice. Catalog and
// archive fetches pass through untouched.
type CachingService struct {
	inner Service
	pages *lru.Cache[string, ComponentPage]

	// generation is folded into cache keys; bumping it on a catalog
	// refresh implicitly discards every cached page.
	generation atomic.Uint64
}

// NewCachingService wraps inner with the component page cache.
func NewCachingService(inner Service) (*CachingService, error) {
	pages, err := lru.New[string, ComponentPage](componentCacheSize)
	if err != nil {
		return nil, err
	}
	return &CachingService{inner: inner, pages: pages}, nil
}

// FetchCatalog implements Service. A successful catalog fetch starts a
// new cache generation: the forest is being rebuilt, so previously
// cached pages must not outlive it.
func (s *CachingService) FetchCatalog(ctx context.Context, versionTag string) (CatalogIndex, error) {
	index, err := s.inner.FetchCatalog(ctx, versionTag)
	if err != nil {
		return nil, err
	}
	s.generation.Add(1)
	return index, nil
}

// FetchComponents implements Service with read-through caching.
func (s *CachingService) FetchComponents(ctx context.Context, ref ModuleRef, versionTag string) (ComponentPage, error) {
	key := fmt.Sprintf("%d/%s/%s/%s/%s", s.generation.Load(), versionTag, ref.Type, ref.Package, ref.Module)
	if page, ok := s.pages.Get(key); ok {
		return page, nil
	}

	page, err := s.inner.FetchComponents(ctx, ref, versionTag)
	if err != nil {
		return ComponentPage{}, err
	}
	s.pages.Add(key, page)
	return page, nil
}

// FetchArchive implements Service by delegation; archives are never cached.
func (s *CachingService) FetchArchive(ctx context.Context, req ArchiveRequest) ([]byte, error) {
	return s.inner.FetchArchive(ctx, req)
}
