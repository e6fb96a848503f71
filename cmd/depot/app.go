// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"os"

	"depot-cli/internal/config"
	"depot-cli/internal/issue"
	"depot-cli/internal/loader"
	"depot-cli/internal/remote"
)

// configProvider is the configuration source for all commands. A var so
// tests can swap in a fixed-config provider.
var configProvider = config.NewProvider()

// loadConfig resolves the active configuration through the provider,
// honoring the --config flag.
func loadConfig(ctx context.Context) (*config.Config, error) {
	return configProvider.Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
}

// newDepotService builds the caching remote service from the loaded
// configuration. The auth token is read from the environment variable
// the config names, never from the config file itself.
func newDepotService(cfg *config.Config) (remote.Service, error) {
	if cfg.DepotURL == "" {
		return nil, issue.Context("connect to depot").
			Resource("configuration").
			Suggest("set depot_url in the config file").
			Suggest("run 'depot config path' to locate it").
			Wrap(config.ErrMissingDepotURL)
	}

	var token string
	if cfg.AuthTokenEnv != "" {
		token = os.Getenv(cfg.AuthTokenEnv)
	}

	svc, err := remote.NewHTTPService(remote.HTTPOptions{
		BaseURL: cfg.DepotURL,
		Token:   token,
	})
	if err != nil {
		return nil, err
	}
	return remote.NewCachingService(svc)
}

// newCatalogLoader wires config, remote service, and loader together.
func newCatalogLoader(ctx context.Context) (*loader.Loader, *config.Config, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	svc, err := newDepotService(cfg)
	if err != nil {
		return nil, nil, err
	}
	return loader.New(svc, cfg.VersionTag), cfg, nil
}
