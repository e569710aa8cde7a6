package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 30*time.Second, cfg.Allocation.CacheTTL)
	assert.Equal(t, 5*time.Second, cfg.Allocation.LockTimeout)
	assert.False(t, cfg.Allocation.CacheEnabled)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENV", EnvProduction)
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("ENABLE_ALLOCATION_CACHE", "true")
	t.Setenv("ALLOCATION_CACHE_TTL", "1m")
	t.Setenv("ALLOCATION_LOCK_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Env)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Allocation.CacheEnabled)
	assert.Equal(t, time.Minute, cfg.Allocation.CacheTTL)
	assert.Equal(t, 5*time.Second, cfg.Allocation.LockTimeout)
}
