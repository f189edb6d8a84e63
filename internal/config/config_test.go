package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:         8080,
		LogLevel:     "info",
		QueryTimeout: 4 * time.Second,
		ChunkSize:    256,
		PageStep:     5,
		Relays:       DefaultRelays(),
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port", func(c *Config) { c.Port = 0 }},
		{"log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"redis scheme", func(c *Config) { c.RedisURL = "http://localhost:6379" }},
		{"timeout", func(c *Config) { c.QueryTimeout = time.Millisecond }},
		{"chunk size", func(c *Config) { c.ChunkSize = -1 }},
		{"page step", func(c *Config) { c.PageStep = 0 }},
		{"relay url", func(c *Config) { c.Relays.SearchRelays = []string{"https://relay.example"} }},
		{"empty relay set", func(c *Config) { c.Relays.BackupRelays = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestConfigAcceptsRedisURL(t *testing.T) {
	c := validConfig()
	c.RedisURL = "redis://localhost:6379/0"
	assert.NoError(t, c.Validate())
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "DEBUG"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{}).SlogLevel())
	assert.Equal(t, slog.LevelError, (&Config{LogLevel: "error"}).SlogLevel())
}

func TestLoadRelaysMissingFileUsesDefaults(t *testing.T) {
	r := LoadRelays(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Equal(t, DefaultRelays(), r)
}

func TestLoadRelaysInvalidJSONUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relays.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	assert.Equal(t, DefaultRelays(), LoadRelays(path, nil))
}

func TestLoadRelaysFillsEmptySets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relays.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"searchRelays":["wss://search.example"]}`), 0o600))

	r := LoadRelays(path, nil)
	assert.Equal(t, []string{"wss://search.example"}, r.SearchRelays)
	assert.Equal(t, DefaultRelays().DirectoryRelays, r.DirectoryRelays)
	assert.Equal(t, DefaultRelays().BackupRelays, r.BackupRelays)
	assert.NoError(t, r.Validate())
}
