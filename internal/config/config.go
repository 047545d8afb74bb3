package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // STREAK_TIMEZONE must resolve in minimal containers
)

type Config struct {
	Environment    string   // ENV: production, development, etc.
	Port           string
	Host           string   // Raw HOST env (e.g. https://api.serenify.app)
	AllowedHost    string   // Hostname only for strict host check (production only)
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)

	StoreDriver string // mongo, postgres or memory
	MongoURI    string
	PostgresURI string
	RedisURI    string

	AuthJWTSecret string
	AuthIssuer    string
	AuthAudience  string

	StreakTimezone string
	LogLevel       string

	RateLimitWindow time.Duration
	RateLimitMax    int
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))
	host := getEnv("HOST", "http://localhost:8080")

	// Host check only runs in production
	var allowedHost string
	if env == "production" {
		allowedHost = hostname(host)
	}

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	// A backend on api.example.com serves https://example.com and https://www.example.com
	if h := hostname(host); h != "" && h != "localhost" {
		parts := strings.Split(h, ".")
		if len(parts) >= 2 {
			domain := strings.Join(parts[1:], ".")
			for _, origin := range []string{"https://" + domain, "https://www." + domain} {
				if !containsOrigin(allowedOrigins, origin) {
					allowedOrigins = append(allowedOrigins, origin)
				}
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		Environment:     env,
		Port:            getEnv("PORT", "8080"),
		Host:            host,
		AllowedHost:     allowedHost,
		AllowedOrigins:  allowedOrigins,
		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", "mongo")),
		MongoURI:        getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/serenify")),
		PostgresURI:     getEnv("POSTGRES_URI", "postgres://localhost:5432/serenify?sslmode=disable"),
		RedisURI:        getEnv("REDIS_URI", ""),
		AuthJWTSecret:   getEnv("AUTH_JWT_SECRET", ""),
		AuthIssuer:      getEnv("AUTH_ISSUER", ""),
		AuthAudience:    getEnv("AUTH_AUDIENCE", ""),
		StreakTimezone:  getEnv("STREAK_TIMEZONE", "UTC"),
		LogLevel:        getEnv("LOG_LEVEL", ""),
		RateLimitWindow: getDuration("RATE_LIMIT_WINDOW", 120*time.Second),
		RateLimitMax:    getInt("RATE_LIMIT_MAX", 25),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// Location is the zone whose calendar days bound a streak.
func (c *Config) Location() (*time.Location, error) {
	if c.StreakTimezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.StreakTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid STREAK_TIMEZONE %q: %w", c.StreakTimezone, err)
	}
	return loc, nil
}

// hostname strips scheme, path and port from a HOST value.
func hostname(host string) string {
	for _, prefix := range []string{"https://", "http://"} {
		host = strings.TrimPrefix(host, prefix)
	}
	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return strings.TrimSpace(host)
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func containsOrigin(list []string, o string) bool {
	o = strings.TrimSpace(strings.ToLower(o))
	for _, v := range list {
		if strings.TrimSpace(strings.ToLower(v)) == o {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
