// Package config loads the API server configuration from the environment.
//
// Values come from process environment variables, optionally seeded from a
// .env file in the working directory. See Config for the recognised keys.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"unseen/internal/platform/db"
	"unseen/internal/platform/redis"
)

// Application environments.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// ErrMissingSecret is returned when JWT_SECRET is unset in production.
var ErrMissingSecret = errors.New("JWT_SECRET must be set in production")

// Config holds runtime settings for the API server.
type Config struct {
	// Env is either "production" (default) or "development".
	Env string `env:"APP_ENV" envDefault:"production"`

	// Port is the TCP port the HTTP server listens on.
	Port int `env:"PORT" envDefault:"3000"`

	// JWTSecret signs session tokens. Required in production.
	JWTSecret string `env:"JWT_SECRET"`

	// TokenTTL is the lifetime of issued session tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"720h"`

	// BcryptCost is the password hashing cost (minimum 10).
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// AuthRateLimit is the number of signup/login attempts allowed per client IP
	// per AuthRateWindow. Zero disables throttling.
	AuthRateLimit  int           `env:"AUTH_RATE_LIMIT" envDefault:"20"`
	AuthRateWindow time.Duration `env:"AUTH_RATE_WINDOW" envDefault:"1m"`

	// UserCacheTTL is how long validated users stay in Redis.
	UserCacheTTL time.Duration `env:"USER_CACHE_TTL" envDefault:"5m"`

	DB    db.Config    `envPrefix:"DB_"`
	Redis redis.Config `envPrefix:"REDIS_"`
}

// Load reads .env (if present) and the process environment, then validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return parse(env.Options{})
}

// LoadFrom builds a Config from an explicit variable map, ignoring the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate applies guardrails. A missing secret fails closed in production;
// in development a random per-process secret is generated instead.
func (c *Config) Validate() error {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	switch c.Env {
	case EnvProduction, EnvDevelopment:
	default:
		return fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvProduction, EnvDevelopment, c.Env)
	}

	if c.JWTSecret == "" {
		if c.Env == EnvProduction {
			return ErrMissingSecret
		}
		secret, err := randomSecret()
		if err != nil {
			return err
		}
		c.JWTSecret = secret
		slog.Warn("JWT_SECRET is not set; using a random secret, tokens will not survive a restart")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.AuthRateLimit < 0 {
		return fmt.Errorf("AUTH_RATE_LIMIT must not be negative, got %d", c.AuthRateLimit)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}

// IsDev reports whether the server runs in development mode.
func (c *Config) IsDev() bool {
	return c.Env == EnvDevelopment
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SlogLevel maps LogLevel onto slog levels; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
