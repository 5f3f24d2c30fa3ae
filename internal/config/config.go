// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer sources.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreBaseURL is the remote document store root, e.g.
	// "https://example-rtdb.europe-west1.firebasedatabase.app".
	StoreBaseURL string `koanf:"store_base_url"`

	// StoreAuthToken authenticates document store requests.
	StoreAuthToken string `koanf:"store_auth_token"`

	// StoreUserID scopes training data to one climber.
	StoreUserID string `koanf:"store_user_id"`

	// StoreTimeoutMS bounds a single document store round trip.
	StoreTimeoutMS int `koanf:"store_timeout_ms"`

	// CatalogTTLMinutes controls how long the panel catalog is cached.
	CatalogTTLMinutes int `koanf:"catalog_ttl_minutes"`

	// FrequencyWindowDays sets the dashboard frequency chart window.
	FrequencyWindowDays int `koanf:"frequency_window_days"`

	// RecentSessionsLimit caps the dashboard recent-sessions list.
	RecentSessionsLimit int `koanf:"recent_sessions_limit"`

	// Offline switches the service to the in-memory store. Useful for
	// demos and local development without a reachable backend.
	Offline bool `koanf:"offline"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		StoreTimeoutMS:      10_000,
		CatalogTTLMinutes:   10,
		FrequencyWindowDays: 30,
		RecentSessionsLimit: 5,
	}
}
