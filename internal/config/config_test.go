package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("SERVER_PORT", "")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "America/New_York", cfg.DefaultTimezone)
	assert.False(t, cfg.PaymentsEnabled())
	assert.False(t, cfg.WebhooksEnabled())
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_URL", "https://lefade.example/")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,,")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "https://lefade.example", cfg.AppURL)
	assert.True(t, cfg.PaymentsEnabled())
	assert.True(t, cfg.WebhooksEnabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLife)
	assert.Equal(t, 20, cfg.RateLimitBurst)
}
