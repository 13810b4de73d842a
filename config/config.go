package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env         string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port        string `env:"PORT" envDefault:"3333" validate:"required"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	StorageDriver  string `env:"STORAGE_DRIVER" envDefault:"postgres" validate:"oneof=postgres sqlite memory"`
	DatabaseURL    string `env:"DATABASE_URL"   validate:"required_if=StorageDriver postgres"`
	SQLitePath     string `env:"SQLITE_PATH"    envDefault:"data/gym-checkin.db"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"false"`

	JWTSecret  string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	JWTTTL     time.Duration `env:"JWT_TTL"     envDefault:"24h" validate:"min=1m"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"6"   validate:"min=4,max=31"`

	// IANA name of the zone whose calendar days bound the one-check-in-per-day rule.
	Timezone string `env:"TIMEZONE" envDefault:"UTC" validate:"required,timezone"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`

	AuthRateLimitRPS   float64 `env:"AUTH_RATE_LIMIT_RPS"   envDefault:"1" validate:"gt=0"`
	AuthRateLimitBurst int     `env:"AUTH_RATE_LIMIT_BURST" envDefault:"5" validate:"min=1"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Location returns the check-in reference timezone. Load has already
// validated the name.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
