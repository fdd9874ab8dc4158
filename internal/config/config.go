package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/minegrid/internal/model"
)

// Config is the server configuration read from the environment
type Config struct {
	Host string `env:"MINEGRID_HOST"`
	Port int    `env:"MINEGRID_PORT" envDefault:"8080"`

	StorageType  string        `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL     string        `env:"REDIS_URL"`
	RedisGameTTL time.Duration `env:"REDIS_GAME_TTL" envDefault:"2h"`

	Rows      int `env:"MINEGRID_ROWS" envDefault:"16"`
	Cols      int `env:"MINEGRID_COLS" envDefault:"16"`
	Hazards   int `env:"MINEGRID_HAZARDS" envDefault:"40"`
	TimeLimit int `env:"MINEGRID_TIME_LIMIT" envDefault:"999"`

	TickPeriod time.Duration `env:"MINEGRID_TICK_PERIOD" envDefault:"1s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that env parsing cannot
func (c Config) Validate() error {
	if err := c.Board().Validate(); err != nil {
		return fmt.Errorf("board defaults: %w", err)
	}
	switch c.StorageType {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL required when STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be 'memory' or 'redis'", c.StorageType)
	}
	if c.TickPeriod <= 0 {
		return fmt.Errorf("MINEGRID_TICK_PERIOD must be positive, got %s", c.TickPeriod)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Board returns the default board configuration for new games
func (c Config) Board() model.Config {
	return model.Config{
		Rows:      c.Rows,
		Cols:      c.Cols,
		Hazards:   c.Hazards,
		TimeLimit: c.TimeLimit,
	}
}

// Level returns the slog level named by LogLevel
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}
