package zooapi

import (
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds keeper-api settings loaded from KEEPER_* environment variables.
type Config struct {
	Addr     string `envconfig:"API_ADDR" default:"127.0.0.1:5000"`
	DBPath   string `envconfig:"DB_PATH" default:"zoo.db"`
	SeedFile string `envconfig:"SEED_FILE" default:""`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("KEEPER", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
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
