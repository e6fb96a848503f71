// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingDepotURL is returned when an operation needs the remote
	// depot but no URL is configured.
	ErrMissingDepotURL = errors.New("depot_url is not configured")
	// ErrMissingProjectDir is returned when an import is attempted with
	// no active project directory configured.
	ErrMissingProjectDir = errors.New("project_dir is not configured")
	// ErrInvalidWorkerCount is the sentinel wrapped by InvalidWorkerCountError.
	ErrInvalidWorkerCount = errors.New("invalid search worker count")
)

type (
	// Config is the decoded depot configuration.
	Config struct {
		// DepotURL is the base URL of the remote component depot.
		DepotURL string `json:"depot_url" mapstructure:"depot_url"`
		// AuthTokenEnv names the environment variable holding the depot
		// auth token. The token itself never lives in the config file.
		AuthTokenEnv string `json:"auth_token_env" mapstructure:"auth_token_env"`
		// VersionTag selects which snapshot of the catalog to query (VRC).
		VersionTag string `json:"version_tag" mapstructure:"version_tag"`
		// ProjectDir is the local project directory imports merge into.
		ProjectDir string `json:"project_dir" mapstructure:"project_dir"`
		// Search configures the concurrent catalog search.
		Search SearchConfig `json:"search" mapstructure:"search"`
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// SearchConfig configures the concurrent catalog search.
	SearchConfig struct {
		// Workers is the fixed size of the search worker pool.
		Workers int `json:"workers" mapstructure:"workers"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		// Verbose enables verbose output.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// InvalidWorkerCountError is returned when search.workers is outside
	// the accepted range. It wraps ErrInvalidWorkerCount for errors.Is().
	InvalidWorkerCountError struct {
		Value int
	}
)

// Error implements the error interface.
func (e *InvalidWorkerCountError) Error() string {
	return fmt.Sprintf("invalid search worker count %d: must be between 1 and 64", e.Value)
}

// Unwrap returns the sentinel for errors.Is() compatibility.
func (e *InvalidWorkerCountError) Unwrap() error {
	return ErrInvalidWorkerCount
}

// Validate checks constraints the CUE schema cannot express against a
// decoded Config (viper defaults bypass schema unification).
func (c *Config) Validate() error {
	if c.Search.Workers < 1 || c.Search.Workers > 64 {
		return &InvalidWorkerCountError{Value: c.Search.Workers}
	}
	if c.DepotURL != "" && !strings.Contains(c.DepotURL, "://") {
		return fmt.Errorf("depot_url %q must be an absolute URL", c.DepotURL)
	}
	return nil
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		AuthTokenEnv: "DEPOT_TOKEN",
		Search:       SearchConfig{Workers: 8},
	}
}
