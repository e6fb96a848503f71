// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"depot-cli/internal/issue"
	"depot-cli/pkg/cueutil"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name, used for the config directory.
	AppName = "depot"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix is the prefix for environment variable overrides
	// (e.g., DEPOT_VERSION_TAG overrides version_tag).
	EnvPrefix = "DEPOT"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the depot configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads configuration honoring the package-level test/flag overrides.
func Load() (*Config, error) {
	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: configFileOverride,
		ConfigDirPath:  configDirOverride,
	})
	return cfg, err
}

// ResolvedPath returns the config file path that Load would read, or ""
// when only defaults apply.
func ResolvedPath() (string, error) {
	_, path, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: configFileOverride,
		ConfigDirPath:  configDirOverride,
	})
	return path, err
}

// loadWithOptions performs option-driven config loading without touching
// package-level state. Returns the config and the resolved file path
// ("" when running on defaults only).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("depot_url", defaults.DepotURL)
	v.SetDefault("auth_token_env", defaults.AuthTokenEnv)
	v.SetDefault("version_tag", defaults.VersionTag)
	v.SetDefault("project_dir", defaults.ProjectDir)
	v.SetDefault("search.workers", defaults.Search.Workers)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := ""

	// A custom config file path set via --config is used exclusively.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.Context("load configuration").
				Resource(opts.ConfigFilePath).
				Suggest("Verify the file path is correct").
				Suggest("Run 'depot config path' to see where configuration is looked up").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath))
		}
		if err := mergeCUEFile(v, opts.ConfigFilePath); err != nil {
			return nil, "", wrapConfigParseError(err, opts.ConfigFilePath)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir := opts.ConfigDirPath
		if cfgDir == "" {
			var err error
			cfgDir, err = ConfigDir()
			if err != nil {
				return nil, "", err
			}
		}

		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		switch {
		case fileExists(cuePath):
			if err := mergeCUEFile(v, cuePath); err != nil {
				return nil, "", wrapConfigParseError(err, cuePath)
			}
			resolvedPath = cuePath
		case fileExists(ConfigFileName + "." + ConfigFileExt):
			// Also honor a config.cue in the current directory.
			localPath := ConfigFileName + "." + ConfigFileExt
			if err := mergeCUEFile(v, localPath); err != nil {
				return nil, "", wrapConfigParseError(err, localPath)
			}
			resolvedPath = localPath
		}
		// No config file found: defaults plus env apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.Context("validate configuration").
			Resource(resolvedPath).
			Suggest("Fix the offending value in config.cue").
			Wrap(err)
	}

	return &cfg, resolvedPath, nil
}

// mergeCUEFile validates a CUE config file against the embedded schema
// and merges the decoded map into viper, preserving defaults and env
// overrides layered underneath.
func mergeCUEFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.Decode[map[string]any](configSchema, "#Config", data, cueutil.WithFilename(path))
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func wrapConfigParseError(err error, path string) error {
	return issue.Context("load configuration").
		Resource(path).
		Suggest("Check that the file contains valid CUE syntax").
		Suggest("Verify the values match the expected schema").
		Wrap(err)
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
