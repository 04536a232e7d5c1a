package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr string

	// SigningSecret signs session/bearer tokens. Provisioned by the hosting
	// environment; the server refuses to start without it.
	SigningSecret string
	TokenTTL      time.Duration

	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	IdentityCacheTTL time.Duration

	LoginRateLimit  int
	LoginRateWindow time.Duration
	APIRateLimit    int
	APIRateWindow   time.Duration
}

func FromEnv() Config {
	return Config{
		HTTPAddr:         envDefault("GATEKEEPER_HTTP_ADDR", ":8080"),
		SigningSecret:    os.Getenv("GATEKEEPER_SIGNING_SECRET"),
		TokenTTL:         envDuration("GATEKEEPER_TOKEN_TTL", 24*time.Hour),
		PostgresDSN:      os.Getenv("GATEKEEPER_POSTGRES_DSN"),
		RedisAddr:        os.Getenv("GATEKEEPER_REDIS_ADDR"),
		RedisPassword:    os.Getenv("GATEKEEPER_REDIS_PASSWORD"),
		RedisDB:          envInt("GATEKEEPER_REDIS_DB", 0),
		IdentityCacheTTL: envDuration("GATEKEEPER_IDENTITY_CACHE_TTL", 300*time.Second),
		LoginRateLimit:   envInt("GATEKEEPER_LOGIN_RATE_LIMIT", 10),
		LoginRateWindow:  envDuration("GATEKEEPER_LOGIN_RATE_WINDOW", time.Minute),
		APIRateLimit:     envInt("GATEKEEPER_API_RATE_LIMIT", 300),
		APIRateWindow:    envDuration("GATEKEEPER_API_RATE_WINDOW", time.Minute),
	}
}

func (c Config) Validate() error {
	if c.SigningSecret == "" {
		return errors.New("GATEKEEPER_SIGNING_SECRET is required")
	}
	if c.IdentityCacheTTL <= 0 {
		return errors.New("identity cache TTL must be positive")
	}
	return nil
}

func envDefault(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

func envInt(key string, def int) int {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func envDuration(key string, def time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
