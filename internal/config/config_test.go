package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcare/backend/internal/analysis/support"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SUPPORT_FALLBACK", "")
	t.Setenv("TZ_LOCATION", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, support.RoundRobin, cfg.Support.Strategy)
	assert.Equal(t, time.UTC, cfg.Schedule.Location)
	assert.Equal(t, "0 0 * * *", cfg.Schedule.RolloverCron)
	assert.False(t, cfg.AI.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9090")
	t.Setenv("SUPPORT_FALLBACK", "length")
	t.Setenv("TZ_LOCATION", "America/New_York")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	t.Setenv("ARK_API_KEY", "key")
	t.Setenv("ARK_MODEL", "ep-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, support.ByLength, cfg.Support.Strategy)
	assert.Equal(t, "America/New_York", cfg.Schedule.Location.String())
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.AI.Enabled())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("port", func(t *testing.T) {
		t.Setenv("PORT", "80 80")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("fallback", func(t *testing.T) {
		t.Setenv("SUPPORT_FALLBACK", "random")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("timezone", func(t *testing.T) {
		t.Setenv("TZ_LOCATION", "Mars/Olympus")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("bool", func(t *testing.T) {
		t.Setenv("SUPPORT_LLM_ENABLED", "maybe")
		_, err := Load()
		assert.Error(t, err)
	})
}
