package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("JWT_TTL_HOURS", "")
	t.Setenv("SWEEP_CRON", "")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 24, cfg.JWTTTLHrs)
	assert.Equal(t, "@every 5m", cfg.SweepCron)
	assert.False(t, cfg.S3.Enabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_TTL_HOURS", "not-a-number")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("S3_BUCKET", "photos")
	t.Setenv("APP_ENV", "production")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 24, cfg.JWTTTLHrs)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.S3.Enabled())
	assert.True(t, cfg.IsProduction())
}
