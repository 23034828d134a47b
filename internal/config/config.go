package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Config holds the server settings read from the environment
type Config struct {
	Port        string
	Environment string

	StoreDriver   string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string

	JWTSecret string
	TokenTTL  time.Duration

	LoginRatePerSecond float64
	LoginBurst         int
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads an optional .env file, then the environment
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset keys
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Port:          env("PORT", "8080"),
		Environment:   env("ENVIRONMENT", "development"),
		StoreDriver:   env("STORE_DRIVER", StoreMemory),
		DatabaseURL:   getenv("DATABASE_URL"),
		MongoURI:      getenv("MONGODB_URI"),
		MongoDatabase: env("MONGODB_DATABASE", "eldercare"),
		JWTSecret:     getenv("JWT_SECRET"),
	}

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(env("TOKEN_TTL", "15m")); err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("TOKEN_TTL must be positive")
	}
	if cfg.LoginRatePerSecond, err = strconv.ParseFloat(env("LOGIN_RATE_PER_SECOND", "5"), 64); err != nil {
		return nil, fmt.Errorf("LOGIN_RATE_PER_SECOND: %w", err)
	}
	if cfg.LoginBurst, err = strconv.Atoi(env("LOGIN_BURST", "10")); err != nil {
		return nil, fmt.Errorf("LOGIN_BURST: %w", err)
	}

	switch cfg.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres store")
		}
	case StoreMongo:
		if cfg.MongoURI == "" {
			return nil, errors.New("MONGODB_URI is required for the mongo store")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("JWT_SECRET is required")
		}
		cfg.JWTSecret = "development-secret"
	}

	return cfg, nil
}
