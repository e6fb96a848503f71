// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"depot-cli/internal/loader"
	"depot-cli/internal/remote"

	"github.com/spf13/cobra"
)

// stubService serves a fixed two-type catalog without any network.
type stubService struct{}

func (stubService) FetchCatalog(ctx context.Context, versionTag string) (remote.CatalogIndex, error) {
	return remote.CatalogIndex{
		"Table": {
			{Package: "td", Modules: []string{"ext", "cfg"}},
			{Package: "us", Modules: []string{"sys"}},
		},
		"Script": {
			{Package: "td", Modules: []string{"ext"}},
		},
	}, nil
}

func (stubService) FetchComponents(ctx context.Context, ref remote.ModuleRef, versionTag string) (remote.ComponentPage, error) {
	page := remote.ComponentPage{Package: ref.Package, Module: ref.Module}
	if ref.Type == "Table" && ref.Package == "td" && ref.Module == "ext" {
		page.Components = []remote.ComponentRecord{
			{Code: "0010m000", Description: "posting date table"},
			{Code: "0020m000", Description: "value date table"},
		}
	}
	return page, nil
}

func (stubService) FetchArchive(ctx context.Context, req remote.ArchiveRequest) ([]byte, error) {
	return nil, nil
}

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetContext(context.Background())
	return cmd, buf
}

func TestBrowsePrintsHierarchy(t *testing.T) {
	ldr := loader.New(stubService{}, "R2.4")
	cmd, buf := newTestCommand()

	if err := runBrowse(cmd, ldr, nil); err != nil {
		t.Fatalf("runBrowse failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Table", "Script", "td", "us", "ext", "cfg", "sys"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// Component listings stay lazy while printing the tree.
	if strings.Contains(out, "0010m000") {
		t.Error("tree listing must not include components")
	}
}

func TestBrowseModuleListsComponents(t *testing.T) {
	ldr := loader.New(stubService{}, "R2.4")
	cmd, buf := newTestCommand()

	if err := runBrowse(cmd, ldr, []string{"Table", "td", "ext"}); err != nil {
		t.Fatalf("runBrowse failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"tdext0010m000.txt", "posting date table", "tdext0020m000.txt"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBrowseUnknownPath(t *testing.T) {
	ldr := loader.New(stubService{}, "R2.4")
	cmd, _ := newTestCommand()

	err := runBrowse(cmd, ldr, []string{"Table", "nope"})
	if err == nil {
		t.Fatal("unknown package must fail")
	}
	if !strings.Contains(err.Error(), "package") || !strings.Contains(err.Error(), "nope") {
		t.Errorf("error should name the level and label: %v", err)
	}
}
