// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	constants "github.com/schoolattendance/backend/internal/constants"
)

type Config struct {
	DatabaseURL    string
	Port           string
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string
	LoginRateLimit int
	LogLevel       string
	DBMaxConns     int32

	// TrustProxyHeaders takes the client address from X-Forwarded-For /
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment take precedence over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv(constants.DATABASE_URL),
		Port:        getenv(constants.PORT, constants.DEFAULT_PORT),
		JWTSecret:   os.Getenv(constants.JWT_SECRET),
		LogLevel:    getenv(constants.LOG_LEVEL, "info"),
	}

	ttl, err := time.ParseDuration(getenv(constants.TOKEN_TTL, constants.DEFAULT_TOKEN_TTL))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", constants.TOKEN_TTL, err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid %s: must be positive", constants.TOKEN_TTL)
	}
	cfg.TokenTTL = ttl

	cfg.LoginRateLimit, err = getenvInt(constants.LOGIN_RATE_LIMIT, constants.DEFAULT_LOGIN_RATE_LIMIT)
	if err != nil {
		return nil, err
	}

	maxConns, err := getenvInt(constants.DB_MAX_CONNS, constants.DEFAULT_DB_MAX_CONNS)
	if err != nil {
		return nil, err
	}
	cfg.DBMaxConns = int32(maxConns)

	if v := strings.TrimSpace(os.Getenv(constants.TRUST_PROXY_HEADERS)); v != "" {
		cfg.TrustProxyHeaders, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", constants.TRUST_PROXY_HEADERS, err)
		}
	}

	if origins := os.Getenv(constants.CORS_ALLOWED_ORIGINS); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("%s environment variable is not set", constants.DATABASE_URL)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("%s environment variable is not set", constants.JWT_SECRET)
	}
	if c.LoginRateLimit <= 0 {
		return fmt.Errorf("invalid %s: must be positive", constants.LOGIN_RATE_LIMIT)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
