package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "PORT", "HOST", "ALLOWED_ORIGINS", "FRONTEND_URL", "FRONTEND_URL_2",
		"STORE_DRIVER", "MONGODB_URI", "MONGO_URI", "POSTGRES_URI", "REDIS_URI",
		"AUTH_JWT_SECRET", "AUTH_ISSUER", "AUTH_AUDIENCE", "STREAK_TIMEZONE",
		"LOG_LEVEL", "RATE_LIMIT_WINDOW", "RATE_LIMIT_MAX",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongo", cfg.StoreDriver)
	assert.Equal(t, "mongodb://localhost:27017/serenify", cfg.MongoURI)
	assert.Empty(t, cfg.AllowedHost)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 120*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 25, cfg.RateLimitMax)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadProduction(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "Production")
	t.Setenv("HOST", "https://api.serenify.app:443/")
	t.Setenv("ALLOWED_ORIGINS", "https://app.serenify.app, https://serenify.app")
	t.Setenv("MONGO_URI", "mongodb://db:27017/prod")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("RATE_LIMIT_MAX", "not-a-number")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "api.serenify.app", cfg.AllowedHost)
	assert.Equal(t, []string{
		"https://app.serenify.app",
		"https://serenify.app",
		"https://www.serenify.app",
	}, cfg.AllowedOrigins)
	assert.Equal(t, "mongodb://db:27017/prod", cfg.MongoURI)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 25, cfg.RateLimitMax)
}

func TestLocation(t *testing.T) {
	cfg := &Config{StreakTimezone: "Asia/Kolkata"}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())

	cfg.StreakTimezone = "Nowhere/Special"
	_, err = cfg.Location()
	assert.Error(t, err)
}
