package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/sportsched/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 10000, cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageType)
	assert.Equal(t, model.DeleteBlock, cfg.DeletePolicy)
	assert.False(t, cfg.EnforceOfficialsNeeded)
	assert.Equal(t, 24*time.Hour, cfg.SessionDuration)
	assert.Equal(t, 10*time.Minute, cfg.SessionCleanupInterval)
	assert.Equal(t, "admin", cfg.BootstrapAdminUsername)
	assert.Equal(t, "scheduler.db", cfg.SQLitePath)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("STORAGE_TYPE", "sqlite")
	t.Setenv("DELETE_POLICY", "cascade")
	t.Setenv("ENFORCE_OFFICIALS_NEEDED", "true")
	t.Setenv("SESSION_DURATION", "2h")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, StorageSQLite, cfg.StorageType)
	assert.Equal(t, model.DeleteCascade, cfg.DeletePolicy)
	assert.True(t, cfg.EnforceOfficialsNeeded)
	assert.Equal(t, 2*time.Hour, cfg.SessionDuration)
	assert.Equal(t, ":8081", cfg.Addr())
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BOOTSTRAP_ADMIN_PASSWORD=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("BOOTSTRAP_ADMIN_PASSWORD") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.BootstrapAdminPassword)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:                   10000,
			LogLevel:               "info",
			StorageType:            StorageMemory,
			DeletePolicy:           model.DeleteBlock,
			SessionDuration:        time.Hour,
			SessionCleanupInterval: time.Minute,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"redis without url", func(c *Config) { c.StorageType = StorageRedis }, false},
		{"redis with url", func(c *Config) { c.StorageType = StorageRedis; c.RedisURL = "redis://localhost:6379" }, true},
		{"postgres without url", func(c *Config) { c.StorageType = StoragePostgres }, false},
		{"unknown storage", func(c *Config) { c.StorageType = "mongo" }, false},
		{"unknown policy", func(c *Config) { c.DeletePolicy = "orphan" }, false},
		{"bad port", func(c *Config) { c.Port = 70000 }, false},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, false},
		{"zero session", func(c *Config) { c.SessionDuration = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	cfg := &Config{LogLevel: "DEBUG"}
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}
