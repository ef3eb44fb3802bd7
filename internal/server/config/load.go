package config

import (
	"fmt"

	"github.com/yndnr/kvlite-go/internal/infra/confloader"
)

// Load builds a ServerConfig from defaults, the YAML file at path (if any),
// KVLITE_ environment variables and overrides, in rising priority, then
// verifies it.
func Load(path string, overrides map[string]any) (*ServerConfig, error) {
	cfg := Default()

	opts := []confloader.Option{confloader.WithOverrides(overrides)}
	if path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
