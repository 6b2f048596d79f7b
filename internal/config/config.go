// Package config loads server configuration from the environment.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

const insecureJWTSecret = "dev-secret-change-in-production"

// Config holds the server configuration.
type Config struct {
	ListenAddr    string // HTTP listen address (default ":8080")
	DBPath        string // SQLite database file (default "./data/daycare.db")
	Storage       string // "sqlite" (default) or "memory"
	StrictStorage bool   // fail on unreadable collections instead of discarding them
	Seed          bool   // seed demo data into empty collections (default true)

	JWTSecret  string
	SessionTTL time.Duration // default 12h

	AIAPIKey  string // remix fails with a configuration error when empty
	AIModel   string // default "gemini-2.5-flash"
	AITimeout time.Duration

	AlertLookahead time.Duration // expiring_soon window (default 7 days)
	AlertSchedule  string        // cron spec for the inventory digest (default "0 6 * * *")

	CORSAllowedOrigins []string // default ["*"]
	RateLimitRPS       float64  // remix requests per second per client (default 1)
	RateLimitBurst     int      // default 5

	// PIN pad attempts (auth and time clock) per second per client.
	PINRateLimitRPS   float64 // default 0.2
	PINRateLimitBurst int     // default 10

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// LoadFromEnv reads DAYCARE_* variables, applies defaults and validates.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr:    getEnv("DAYCARE_ADDR", ":8080"),
		DBPath:        getEnv("DAYCARE_DB_PATH", "./data/daycare.db"),
		Storage:       strings.ToLower(getEnv("DAYCARE_STORAGE", "sqlite")),
		StrictStorage: parseBoolEnvDefault("DAYCARE_STRICT_STORAGE", false),
		Seed:          parseBoolEnvDefault("DAYCARE_SEED", true),
		JWTSecret:     os.Getenv("DAYCARE_JWT_SECRET"),
		AIAPIKey:      os.Getenv("DAYCARE_AI_API_KEY"),
		AIModel:       getEnv("DAYCARE_AI_MODEL", "gemini-2.5-flash"),
		AlertSchedule: getEnv("DAYCARE_ALERT_SCHEDULE", "0 6 * * *"),
	}

	var err error
	if cfg.SessionTTL, err = durationEnv("DAYCARE_SESSION_TTL", 12*time.Hour); err != nil {
		return nil, err
	}
	if cfg.AITimeout, err = durationEnv("DAYCARE_AI_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.AlertLookahead, err = durationEnv("DAYCARE_ALERT_LOOKAHEAD", 7*24*time.Hour); err != nil {
		return nil, err
	}

	if cfg.RateLimitRPS, err = floatEnv("DAYCARE_RATE_LIMIT_RPS", 1); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = intEnv("DAYCARE_RATE_LIMIT_BURST", 5); err != nil {
		return nil, err
	}
	if cfg.PINRateLimitRPS, err = floatEnv("DAYCARE_PIN_RATE_LIMIT_RPS", 0.2); err != nil {
		return nil, err
	}
	if cfg.PINRateLimitBurst, err = intEnv("DAYCARE_PIN_RATE_LIMIT_BURST", 10); err != nil {
		return nil, err
	}

	cfg.CORSAllowedOrigins = []string{"*"}
	if v := os.Getenv("DAYCARE_CORS_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = compactNonEmpty(strings.Split(v, ","))
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = insecureJWTSecret
		cfg.Warnings = append(cfg.Warnings, "DAYCARE_JWT_SECRET not set, using insecure default. Set DAYCARE_JWT_SECRET in production!")
	}
	if cfg.AIAPIKey == "" {
		cfg.Warnings = append(cfg.Warnings, "DAYCARE_AI_API_KEY not set, lesson remix is disabled")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	switch c.Storage {
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("DAYCARE_DB_PATH is required for sqlite storage")
		}
	case "memory":
	default:
		return fmt.Errorf("DAYCARE_STORAGE must be sqlite or memory, got %q", c.Storage)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("DAYCARE_SESSION_TTL must be positive")
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("DAYCARE_AI_TIMEOUT must be positive")
	}
	if c.AlertLookahead < 0 {
		return fmt.Errorf("DAYCARE_ALERT_LOOKAHEAD cannot be negative")
	}
	if c.AlertSchedule != "" {
		if _, err := cron.ParseStandard(c.AlertSchedule); err != nil {
			return fmt.Errorf("DAYCARE_ALERT_SCHEDULE: %w", err)
		}
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("DAYCARE_RATE_LIMIT_RPS and DAYCARE_RATE_LIMIT_BURST must be positive")
	}
	if c.PINRateLimitRPS <= 0 || c.PINRateLimitBurst <= 0 {
		return fmt.Errorf("DAYCARE_PIN_RATE_LIMIT_RPS and DAYCARE_PIN_RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// RemixEnabled reports whether an AI API key is configured.
func (c *Config) RemixEnabled() bool {
	return c.AIAPIKey != ""
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func parseBoolEnvDefault(key string, defaultVal bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if v == "" {
		return defaultVal
	}
	if v == "0" || v == "false" || v == "no" || v == "off" {
		return false
	}
	if v == "1" || v == "true" || v == "yes" || v == "on" {
		return true
	}
	return defaultVal
}

func compactNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}
