package config

import (
	"fmt"
	"friend-locator-service/internal/adapters/directionsapi"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds service settings read from the environment (after .env loading).
type Config struct {
	Port              string        `mapstructure:"PORT"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DirectionsAPIKey  string        `mapstructure:"DIRECTIONS_API_KEY"`
	DirectionsBaseURL string        `mapstructure:"DIRECTIONS_BASE_URL"`
	DirectionsTimeout time.Duration `mapstructure:"DIRECTIONS_TIMEOUT"`
	RedisURL          string        `mapstructure:"REDIS_URL"`
	CacheTTL          time.Duration `mapstructure:"CACHE_TTL"`
	NATSURL           string        `mapstructure:"NATS_URL"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	SeedPath          string        `mapstructure:"SEED_PATH"`
	TrackPairs        string        `mapstructure:"TRACK_PAIRS"`
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DIRECTIONS_API_KEY", "")
	v.SetDefault("DIRECTIONS_BASE_URL", directionsapi.DefaultBaseURL)
	v.SetDefault("DIRECTIONS_TIMEOUT", 10*time.Second)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CACHE_TTL", 10*time.Minute)
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEED_PATH", "data/seeds/users.json")
	v.SetDefault("TRACK_PAIRS", "")

	v.AutomaticEnv()
	return v
}

// Load reads configuration from environment variables over the defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := newViper().Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("load config: unmarshal: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings the HTTP server needs.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Port) == "" {
		errs = append(errs, "PORT is required")
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if strings.TrimSpace(c.DirectionsAPIKey) == "" {
		errs = append(errs, "DIRECTIONS_API_KEY is required")
	}
	if c.DirectionsTimeout <= 0 {
		errs = append(errs, "DIRECTIONS_TIMEOUT must be positive")
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, "CACHE_TTL must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// TrackedPairs parses TRACK_PAIRS ("watcher:friend,watcher:friend").
func (c *Config) TrackedPairs() ([][2]string, error) {
	var pairs [][2]string
	for _, item := range strings.Split(c.TrackPairs, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		watcher, friend, ok := strings.Cut(item, ":")
		watcher, friend = strings.TrimSpace(watcher), strings.TrimSpace(friend)
		if !ok || watcher == "" || friend == "" {
			return nil, fmt.Errorf("tracked pairs: invalid entry %q, want watcher:friend", item)
		}
		pairs = append(pairs, [2]string{watcher, friend})
	}

	return pairs, nil
}
