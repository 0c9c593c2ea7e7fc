// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and PACTUM_ env vars.
// - External errors must be wrapped via this package's error kinds.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address of the dashboard, e.g. ":9090".
	Addr string `koanf:"addr"`

	// APIBaseURL is the root of the contract-management backend.
	APIBaseURL string `koanf:"api_base_url"`

	// FetchTimeoutMS bounds each backend request. Zero disables the timeout.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// RefreshOnStart runs one aggregation cycle before serving.
	RefreshOnStart bool `koanf:"refresh_on_start"`

	// MetricsIntervalMS sets how often system gauges are refreshed.
	MetricsIntervalMS int `koanf:"metrics_interval_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9090",
		APIBaseURL:        "http://localhost:5000",
		FetchTimeoutMS:    0,
		RefreshOnStart:    true,
		MetricsIntervalMS: 10_000,
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// MetricsInterval returns MetricsIntervalMS as a duration.
func (c *Config) MetricsInterval() time.Duration {
	return time.Duration(c.MetricsIntervalMS) * time.Millisecond
}
