// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty for defaults", path)
	}
	if cfg.Search.Workers != 8 {
		t.Errorf("default search.workers = %d, want 8", cfg.Search.Workers)
	}
	if cfg.AuthTokenEnv != "DEPOT_TOKEN" {
		t.Errorf("default auth_token_env = %q, want DEPOT_TOKEN", cfg.AuthTokenEnv)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "full config",
			content: `
depot_url:   "https://depot.example/api"
version_tag: "R2.4"
project_dir: "/work/proj"
search: workers: 4
ui: verbose: true
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.DepotURL != "https://depot.example/api" {
					t.Errorf("DepotURL = %q", cfg.DepotURL)
				}
				if cfg.VersionTag != "R2.4" {
					t.Errorf("VersionTag = %q", cfg.VersionTag)
				}
				if cfg.Search.Workers != 4 {
					t.Errorf("Workers = %d, want 4", cfg.Search.Workers)
				}
				if !cfg.UI.Verbose {
					t.Error("UI.Verbose = false, want true")
				}
			},
		},
		{
			name: "partial config keeps defaults",
			content: `
depot_url: "https://depot.example/api"
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Search.Workers != 8 {
					t.Errorf("Workers = %d, want default 8", cfg.Search.Workers)
				}
			},
		},
		{
			name:    "schema violation surfaces field path",
			content: `search: workers: 99`,
			wantErr: "search.workers",
		},
		{
			name:    "not a URL",
			content: `depot_url: "depot.example"`,
			wantErr: "absolute URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfigFile(t, dir, tt.content)

			cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: dir})
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("load succeeded, want error containing %q", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error %q does not mention %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if path == "" {
				t.Error("resolved path empty, want the written config file")
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	_, _, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue"),
	})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := loadWithOptions(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestLoadHonorsDirOverride(t *testing.T) {
	t.Cleanup(Reset)

	dir := t.TempDir()
	writeConfigFile(t, dir, `depot_url: "https://depot.example/api"`)
	SetConfigDirOverride(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.DepotURL != "https://depot.example/api" {
		t.Errorf("DepotURL = %q, want the overridden directory's config", cfg.DepotURL)
	}

	path, err := ResolvedPath()
	if err != nil {
		t.Fatalf("ResolvedPath failed: %v", err)
	}
	if !strings.HasPrefix(path, dir) {
		t.Errorf("resolved path = %q, want inside %q", path, dir)
	}
}

func TestResetClearsOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `version_tag: "R9.9"`)
	SetConfigDirOverride(dir)
	Reset()

	// The overridden directory must no longer influence resolution;
	// whatever the host resolves to, it is not the temp dir.
	path, _ := ResolvedPath()
	if strings.HasPrefix(path, dir) {
		t.Errorf("resolved path = %q still points at the cleared override", path)
	}
}

func TestProviderLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
depot_url:   "https://depot.example/api"
version_tag: "R2.4"
`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("provider load failed: %v", err)
	}
	if cfg.DepotURL != "https://depot.example/api" || cfg.VersionTag != "R2.4" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestValidateWorkerRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.Workers = 0
	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidWorkerCount) {
		t.Fatalf("err = %v, want ErrInvalidWorkerCount", err)
	}
}
