package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptlab/promptlab/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, ":8000", cfg.Server.Addr())
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Log.File)
	assert.Equal(t, 10*time.Minute, cfg.Idempotency.TTL)
	assert.True(t, cfg.MCP.Enabled)
	assert.Equal(t, 64, cfg.Events.Buffer)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PROMPTLAB_SERVER_PORT", "9090")
	t.Setenv("PROMPTLAB_LOG_LEVEL", "debug")
	t.Setenv("PROMPTLAB_MCP_ENABLED", "false")
	t.Setenv("PROMPTLAB_IDEMPOTENCY_TTL", "30s")

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.MCP.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Idempotency.TTL)
}

func TestLoad_EnvOriginList(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want []string
	}{
		{name: "comma separated", env: "http://a.example,http://b.example", want: []string{"http://a.example", "http://b.example"}},
		{name: "comma and space", env: "http://a.example, http://b.example", want: []string{"http://a.example", "http://b.example"}},
		{name: "space separated", env: "http://a.example http://b.example", want: []string{"http://a.example", "http://b.example"}},
		{name: "single", env: "http://a.example", want: []string{"http://a.example"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("PROMPTLAB_CORS_ALLOW_ORIGINS", tt.env)

			cfg, err := config.Load(config.New(), "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.CORS.AllowOrigins)
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PROMPTLAB_EVENTS_BUFFER=7\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("PROMPTLAB_EVENTS_BUFFER") })

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Events.Buffer)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "promptlab.yaml")
	yaml := "server:\n  port: 7000\ncors:\n  allow_origins:\n    - http://localhost:5173\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := config.Load(config.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowOrigins)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := config.Load(config.New(), "does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			Server:      config.ServerConfig{Port: 8000, ShutdownTimeout: time.Second},
			CORS:        config.CORSConfig{AllowOrigins: []string{"*"}},
			Log:         config.LogConfig{Level: "info"},
			Idempotency: config.IdempotencyConfig{TTL: time.Minute},
			Events:      config.EventsConfig{Buffer: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *config.Config) {}},
		{name: "port zero", mutate: func(c *config.Config) { c.Server.Port = 0 }, wantErr: "server.port"},
		{name: "port too large", mutate: func(c *config.Config) { c.Server.Port = 70000 }, wantErr: "server.port"},
		{name: "shutdown timeout", mutate: func(c *config.Config) { c.Server.ShutdownTimeout = 0 }, wantErr: "server.shutdown_timeout"},
		{name: "ttl", mutate: func(c *config.Config) { c.Idempotency.TTL = -time.Second }, wantErr: "idempotency.ttl"},
		{name: "buffer", mutate: func(c *config.Config) { c.Events.Buffer = 0 }, wantErr: "events.buffer"},
		{name: "no origins", mutate: func(c *config.Config) { c.CORS.AllowOrigins = nil }, wantErr: "cors.allow_origins"},
		{name: "log level", mutate: func(c *config.Config) { c.Log.Level = "verbose" }, wantErr: "log.level"},
		{name: "log level case-insensitive", mutate: func(c *config.Config) { c.Log.Level = "WARN" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
