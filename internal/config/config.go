// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mcoot/sportsched/internal/model"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config holds all server configuration parsed from environment variables
type Config struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"10000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Storage
	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"scheduler.db"`
	DatabaseURL string `env:"DATABASE_URL"`

	// Scheduling rules
	DeletePolicy           model.DeletePolicy `env:"DELETE_POLICY" envDefault:"block"`
	EnforceOfficialsNeeded bool               `env:"ENFORCE_OFFICIALS_NEEDED" envDefault:"false"`

	// Sessions
	SessionDuration        time.Duration `env:"SESSION_DURATION" envDefault:"24h"`
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"10m"`

	// First-run superadmin, created only when no users exist
	BootstrapAdminUsername string `env:"BOOTSTRAP_ADMIN_USERNAME" envDefault:"admin"`
	BootstrapAdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`

	// Export archive (optional)
	ExportBucket     string `env:"EXPORT_BUCKET"`
	ExportPrefix     string `env:"EXPORT_PREFIX" envDefault:"exports/"`
	ExportRegion     string `env:"EXPORT_S3_REGION" envDefault:"us-east-1"`
	ExportS3Endpoint string `env:"EXPORT_S3_ENDPOINT"`
	ExportAccessKey  string `env:"EXPORT_S3_ACCESS_KEY_ID"`
	ExportSecretKey  string `env:"EXPORT_S3_SECRET_ACCESS_KEY"`
}

// Load reads an optional .env file and parses the environment
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageType {
	case StorageMemory, StorageSQLite:
	case StorageRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL required when STORAGE_TYPE=redis"))
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL required when STORAGE_TYPE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid STORAGE_TYPE %q: must be memory, redis, sqlite or postgres", c.StorageType))
	}

	if !c.DeletePolicy.IsValid() {
		errs = append(errs, fmt.Errorf("invalid DELETE_POLICY %q: must be block or cascade", c.DeletePolicy))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", c.Port))
	}
	if c.SessionDuration <= 0 {
		errs = append(errs, errors.New("SESSION_DURATION must be positive"))
	}
	if c.SessionCleanupInterval <= 0 {
		errs = append(errs, errors.New("SESSION_CLEANUP_INTERVAL must be positive"))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Level parses LOG_LEVEL
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	return level, nil
}
