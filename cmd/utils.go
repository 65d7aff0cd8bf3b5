package cmd

import (
	"fmt"
	"log/slog"

	"dashsearch/internal/api"
	"dashsearch/internal/config"
)

// loadConfig loads the config file at path with env overrides applied
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.NewConfigServiceAt(path).Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// applyScope overrides the configured scope when flag is set
func applyScope(cfg *config.Config, flag string) error {
	if flag == "" {
		return nil
	}
	scope, err := api.ParseScope(flag)
	if err != nil {
		return err
	}
	cfg.Scope = string(scope)
	return nil
}

// newClient builds the search client described by cfg
func newClient(cfg *config.Config, tokens *api.TokenSource, logger *slog.Logger) (*api.Client, error) {
	scope, err := api.ParseScope(cfg.Scope)
	if err != nil {
		return nil, err
	}
	client, err := api.NewClient(api.Options{
		BaseURL:           cfg.APIURL,
		Timeout:           cfg.Timeout.Duration,
		Limit:             cfg.Limit,
		Scope:             scope,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Tokens:            tokens,
		Logger:            logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating api client: %w", err)
	}
	return client, nil
}
