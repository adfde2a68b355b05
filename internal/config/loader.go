package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/atlas/internal/domain/viewmode"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if ATLAS_CONFIG is set
//  3. env (prefix ATLAS_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("ATLAS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// ATLAS_SNAPSHOT_TTL -> snapshot_ttl. Underscores are kept to match the
	// flat koanf tags.
	envProvider := env.Provider("ATLAS_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "atlas_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Year <= 0:
		return fmt.Errorf("%w: year must be positive, got %d", ErrInvalidConfig, c.Year)
	case c.SnapshotTTL <= 0:
		return fmt.Errorf("%w: snapshot_ttl must be positive", ErrInvalidConfig)
	case c.RefreshInterval < 0:
		return fmt.Errorf("%w: refresh_interval must not be negative", ErrInvalidConfig)
	case c.RateLimitRPS < 0 || c.RateLimitBurst < 0:
		return fmt.Errorf("%w: rate limits must not be negative", ErrInvalidConfig)
	case c.OpportunityReferenceUSD <= 0:
		return fmt.Errorf("%w: opportunity_reference_usd must be positive", ErrInvalidConfig)
	}
	switch c.Store {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: postgres store requires database_url", ErrInvalidConfig)
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite store requires sqlite_path", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownStore, c.Store)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if _, err := viewmode.Parse(c.DefaultViewMode); err != nil {
		return fmt.Errorf("%w: default_view_mode: %v", ErrInvalidConfig, err)
	}
	return nil
}
