package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allVars = []string{
	"DAYCARE_ADDR", "DAYCARE_DB_PATH", "DAYCARE_STORAGE", "DAYCARE_STRICT_STORAGE",
	"DAYCARE_SEED", "DAYCARE_JWT_SECRET", "DAYCARE_SESSION_TTL", "DAYCARE_AI_API_KEY",
	"DAYCARE_AI_MODEL", "DAYCARE_AI_TIMEOUT", "DAYCARE_ALERT_LOOKAHEAD",
	"DAYCARE_ALERT_SCHEDULE", "DAYCARE_CORS_ORIGINS", "DAYCARE_RATE_LIMIT_RPS",
	"DAYCARE_RATE_LIMIT_BURST", "DAYCARE_PIN_RATE_LIMIT_RPS", "DAYCARE_PIN_RATE_LIMIT_BURST",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allVars {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "./data/daycare.db", cfg.DBPath)
	assert.Equal(t, "sqlite", cfg.Storage)
	assert.False(t, cfg.StrictStorage)
	assert.True(t, cfg.Seed)
	assert.Equal(t, insecureJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "gemini-2.5-flash", cfg.AIModel)
	assert.Equal(t, 60*time.Second, cfg.AITimeout)
	assert.Equal(t, 7*24*time.Hour, cfg.AlertLookahead)
	assert.Equal(t, "0 6 * * *", cfg.AlertSchedule)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.InDelta(t, 1.0, cfg.RateLimitRPS, 0.0001)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.InDelta(t, 0.2, cfg.PINRateLimitRPS, 0.0001)
	assert.Equal(t, 10, cfg.PINRateLimitBurst)
	assert.False(t, cfg.RemixEnabled())
	assert.Len(t, cfg.Warnings, 2)
}

func TestLoadFromEnv_AllVarsSet(t *testing.T) {
	clearEnv(t)
	t.Setenv("DAYCARE_ADDR", ":9090")
	t.Setenv("DAYCARE_STORAGE", "MEMORY")
	t.Setenv("DAYCARE_STRICT_STORAGE", "yes")
	t.Setenv("DAYCARE_SEED", "off")
	t.Setenv("DAYCARE_JWT_SECRET", "s3cret")
	t.Setenv("DAYCARE_SESSION_TTL", "30m")
	t.Setenv("DAYCARE_AI_API_KEY", "key")
	t.Setenv("DAYCARE_AI_TIMEOUT", "5s")
	t.Setenv("DAYCARE_ALERT_LOOKAHEAD", "72h")
	t.Setenv("DAYCARE_ALERT_SCHEDULE", "@hourly")
	t.Setenv("DAYCARE_CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DAYCARE_RATE_LIMIT_RPS", "2.5")
	t.Setenv("DAYCARE_RATE_LIMIT_BURST", "10")
	t.Setenv("DAYCARE_PIN_RATE_LIMIT_RPS", "0.5")
	t.Setenv("DAYCARE_PIN_RATE_LIMIT_BURST", "3")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "memory", cfg.Storage)
	assert.True(t, cfg.StrictStorage)
	assert.False(t, cfg.Seed)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.RemixEnabled())
	assert.Equal(t, 5*time.Second, cfg.AITimeout)
	assert.Equal(t, 72*time.Hour, cfg.AlertLookahead)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.InDelta(t, 2.5, cfg.RateLimitRPS, 0.0001)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.InDelta(t, 0.5, cfg.PINRateLimitRPS, 0.0001)
	assert.Equal(t, 3, cfg.PINRateLimitBurst)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unknown storage", "DAYCARE_STORAGE", "redis"},
		{"bad duration", "DAYCARE_SESSION_TTL", "forever"},
		{"zero timeout", "DAYCARE_AI_TIMEOUT", "0s"},
		{"bad cron", "DAYCARE_ALERT_SCHEDULE", "every morning"},
		{"bad rps", "DAYCARE_RATE_LIMIT_RPS", "fast"},
		{"zero burst", "DAYCARE_RATE_LIMIT_BURST", "0"},
		{"zero pin rps", "DAYCARE_PIN_RATE_LIMIT_RPS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nDAYCARE_AI_MODEL=\"gemini-2.5-pro\"\nDAYCARE_ADDR=:7000\nnot a pair\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("DAYCARE_ADDR", ":6000")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "gemini-2.5-pro", os.Getenv("DAYCARE_AI_MODEL"))
	assert.Equal(t, ":6000", os.Getenv("DAYCARE_ADDR"))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
