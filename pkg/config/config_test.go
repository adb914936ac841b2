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
	assert.Equal(t, "http://localhost:3000/api", cfg.Backend.BaseURL)
	assert.Equal(t, 10, cfg.Console.DefaultPageSize)
	assert.Equal(t, 5, cfg.Console.PageWindowSize)
	assert.Equal(t, 5, cfg.Dashboard.RecentLimit)
	assert.False(t, cfg.CacheEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://records.example.edu/api/")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("DEFAULT_PAGE_SIZE", "20")
	t.Setenv("ENABLE_LIST_CACHE", "true")
	t.Setenv("LIST_CACHE_TTL", "bogus")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.edu, ,https://b.example.edu")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://records.example.edu/api", cfg.Backend.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 20, cfg.Console.DefaultPageSize)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, 30*time.Second, cfg.Console.ListCacheTTL)
	assert.Equal(t, []string{"https://a.example.edu", "https://b.example.edu"}, cfg.CORS.AllowedOrigins)
}

func TestLoadRejectsInvalidPageSize(t *testing.T) {
	t.Setenv("DEFAULT_PAGE_SIZE", "0")

	_, err := Load()
	assert.Error(t, err)
}
