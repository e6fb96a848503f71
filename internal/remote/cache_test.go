// SPDX-License-Identifier: MPL-2.0

package remote

import (
	"context"
	"sync/atomic"
	"testing"
)

// fakeService counts calls and serves canned answers.
type fakeService struct {
	catalogCalls   atomic.Int64
	componentCalls atomic.Int64
	page           ComponentPage
}

func (f *fakeService) FetchCatalog(ctx context.Context, versionTag string) (CatalogIndex, error) {
	f.catalogCalls.Add(1)
	return CatalogIndex{}, nil
}

func (f *fakeService) FetchComponents(ctx context.Context, ref ModuleRef, versionTag string) (ComponentPage, error) {
	f.componentCalls.Add(1)
	return f.page, nil
}

func (f *fakeService) FetchArchive(ctx context.Context, req ArchiveRequest) ([]byte, error) {
	return nil, nil
}

func TestCachingServiceReadThrough(t *testing.T) {
	fake := &fakeService{page: ComponentPage{Package: "td", Module: "ext"}}
	svc, err := NewCachingService(fake)
	if err != nil {
		t.Fatal(err)
	}

	ref := ModuleRef{Type: "Table", Package: "td", Module: "ext"}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		page, err := svc.FetchComponents(ctx, ref, "R2.4")
		if err != nil {
			t.Fatalf("FetchComponents failed: %v", err)
		}
		if page.Module != "ext" {
			t.Errorf("page = %+v", page)
		}
	}
	if got := fake.componentCalls.Load(); got != 1 {
		t.Errorf("inner FetchComponents called %d times, want 1", got)
	}

	// A different version tag is a different cache entry.
	if _, err := svc.FetchComponents(ctx, ref, "R2.5"); err != nil {
		t.Fatal(err)
	}
	if got := fake.componentCalls.Load(); got != 2 {
		t.Errorf("inner FetchComponents called %d times, want 2", got)
	}
}

func TestCachingServiceInvalidatedByCatalogRefresh(t *testing.T) {
	fake := &fakeService{page: ComponentPage{Module: "ext"}}
	svc, err := NewCachingService(fake)
	if err != nil {
		t.Fatal(err)
	}

	ref := ModuleRef{Type: "Table", Package: "td", Module: "ext"}
	ctx := context.Background()

	if _, err := svc.FetchComponents(ctx, ref, "R2.4"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.FetchCatalog(ctx, "R2.4"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.FetchComponents(ctx, ref, "R2.4"); err != nil {
		t.Fatal(err)
	}

	if got := fake.componentCalls.Load(); got != 2 {
		t.Errorf("inner FetchComponents called %d times, want 2 (refresh must discard the cache)", got)
	}
}
