// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Store selects the metric store driver: memory, postgres or sqlite.
	Store string `koanf:"store"`

	// DatabaseURL is the Postgres connection string.
	DatabaseURL string `koanf:"database_url"`

	// SQLitePath is the SQLite database file.
	SQLitePath string `koanf:"sqlite_path"`

	// MaxConns caps the Postgres pool.
	MaxConns int `koanf:"max_conns"`

	// Year is the default reporting year.
	Year int `koanf:"year"`

	// SnapshotTTL is how long a loaded year is served before reloading.
	SnapshotTTL time.Duration `koanf:"snapshot_ttl"`

	// RefreshInterval reloads the default year in the background. 0 disables.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// RateLimitRPS and RateLimitBurst bound requests per client. 0 disables.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// CORSAllowedOrigins is a comma separated origin list.
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`

	// DefaultViewMode is served when a client does not pick a mode.
	DefaultViewMode string `koanf:"default_view_mode"`

	// OpportunityReferenceUSD is the capital worth one normalization point.
	OpportunityReferenceUSD float64 `koanf:"opportunity_reference_usd"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		Addr:                    ":9080",
		Store:                   "memory",
		MaxConns:                10,
		Year:                    2024,
		SnapshotTTL:             24 * time.Hour,
		RefreshInterval:         time.Hour,
		RateLimitRPS:            20,
		RateLimitBurst:          40,
		CORSAllowedOrigins:      "*",
		DefaultViewMode:         "public",
		OpportunityReferenceUSD: 5e8,
	}
}

// AllowedOrigins splits CORSAllowedOrigins, dropping blanks.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
