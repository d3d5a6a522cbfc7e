package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8086, cfg.Server.Port)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, 0.3, cfg.Query.UniformFallback)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9001
data:
  dir: /srv/datasets
query:
  intent_threshold: 3
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)

	assert.NoError(t, err)
	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "/srv/datasets", cfg.Data.Dir)
	assert.Equal(t, 3.0, cfg.Query.IntentThreshold)
	// Untouched sections keep their defaults.
	assert.Equal(t, "accounts.csv", cfg.Data.AccountsFile)
	assert.Equal(t, "memory", cfg.Cache.Driver)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("DATA_DIR", "/tmp/data")
	t.Setenv("REDIS_URL", "redis://cache:6379")

	cfg, err := Load("")

	assert.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "/tmp/data", cfg.Data.Dir)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, "cache:6379", cfg.Cache.Redis.Addr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "bad cache driver", mutate: func(c *Config) { c.Cache.Driver = "memcached" }},
		{name: "bad min term length", mutate: func(c *Config) { c.Query.MinTermLength = 0 }},
		{name: "fallback out of range", mutate: func(c *Config) { c.Query.UniformFallback = 1.5 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDatasetPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.Dir = "/srv/data"

	assert.Equal(t, filepath.Join("/srv/data", "words.csv"), cfg.DatasetPath("words.csv"))
	assert.Equal(t, "/abs/words.csv", cfg.DatasetPath("/abs/words.csv"))
}
