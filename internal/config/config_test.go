package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORE_DRIVER", "memory")

	cfg := Load()
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, "rri_jambi", cfg.DBName)
	assert.Equal(t, "ADMIN", cfg.AdminUsername)
	assert.Equal(t, "ADMINRRI22", cfg.AdminPassword)
	assert.Equal(t, 3, cfg.RetryMaxAttempts)
	assert.Equal(t, time.Second, cfg.RetryBaseDelay)
	assert.Equal(t, 30*time.Second, cfg.MonitorInterval)
	assert.Equal(t, 5*time.Second, cfg.MonitorDegradedAfter)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORE_DRIVER", "rest")
	t.Setenv("API_BASE_URL", "https://example.supabase.co")
	t.Setenv("API_KEY", "service-role-key")
	t.Setenv("RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("RETRY_BASE_DELAY", "250ms")
	t.Setenv("MONITOR_INTERVAL", "10s")

	cfg := Load()
	assert.Equal(t, "rest", cfg.StoreDriver)
	assert.Equal(t, "https://example.supabase.co", cfg.APIBaseURL)
	assert.Equal(t, 5, cfg.RetryMaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryBaseDelay)
	assert.Equal(t, 10*time.Second, cfg.MonitorInterval)
}

func TestEnvHelpersFallBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "not a number")
	assert.Equal(t, 7, envInt("SOME_INT", 7))

	t.Setenv("SOME_DUR", "soon")
	assert.Equal(t, time.Minute, envDur("SOME_DUR", time.Minute))

	t.Setenv("SOME_BOOL", "maybe")
	assert.True(t, envBool("SOME_BOOL", true))
	t.Setenv("SOME_BOOL", "off")
	assert.False(t, envBool("SOME_BOOL", true))
}

func TestRateLimitConfigClampsInvalidValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_LIMIT", "0")
	t.Setenv("RATE_LIMIT_WINDOW", "-1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Limit)
	assert.Equal(t, time.Minute, cfg.Window)
}
