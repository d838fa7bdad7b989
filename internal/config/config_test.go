package config

import (
	"friend-locator-service/internal/adapters/directionsapi"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DIRECTIONS_API_KEY", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, directionsapi.DefaultBaseURL, cfg.DirectionsBaseURL)
	require.Equal(t, 10*time.Second, cfg.DirectionsTimeout)
	require.Equal(t, 10*time.Minute, cfg.CacheTTL)

	err = cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "DATABASE_URL is required")
	require.Contains(t, err.Error(), "DIRECTIONS_API_KEY is required")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://locator@localhost:5432/locator")
	t.Setenv("DIRECTIONS_API_KEY", "secret")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "secret", cfg.DirectionsAPIKey)
	require.Equal(t, 90*time.Second, cfg.CacheTTL)
	require.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestTrackedPairs(t *testing.T) {
	cfg := &Config{TrackPairs: " alice:bob , carol:dave,"}
	pairs, err := cfg.TrackedPairs()
	require.NoError(t, err)
	require.Equal(t, [][2]string{{"alice", "bob"}, {"carol", "dave"}}, pairs)

	cfg.TrackPairs = "alice"
	_, err = cfg.TrackedPairs()
	require.Error(t, err)
}
