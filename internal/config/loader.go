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
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if BETALOG_CONFIG is set
//  3. env (prefix BETALOG_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("BETALOG_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: BETALOG_ADDR, BETALOG_STORE_BASE_URL, ...
	// Map env keys like BETALOG_STORE_BASE_URL -> store_base_url (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("BETALOG_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "betalog_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case !c.Offline && c.StoreBaseURL == "":
		return fmt.Errorf("%w: store_base_url required unless offline", ErrInvalidConfig)
	case c.StoreTimeoutMS <= 0:
		return fmt.Errorf("%w: store_timeout_ms must be positive", ErrInvalidConfig)
	case c.CatalogTTLMinutes <= 0:
		return fmt.Errorf("%w: catalog_ttl_minutes must be positive", ErrInvalidConfig)
	case c.FrequencyWindowDays <= 0:
		return fmt.Errorf("%w: frequency_window_days must be positive", ErrInvalidConfig)
	case c.RecentSessionsLimit <= 0:
		return fmt.Errorf("%w: recent_sessions_limit must be positive", ErrInvalidConfig)
	}
	return nil
}
