package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFrom_Defaults(t *testing.T) {
	cfg, err := LoadConfigFrom("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 20, cfg.Domain.DefaultMaxPathDepth)
	assert.Equal(t, []string{"defaults", "environment"}, cfg.LoadedFrom)
}

func TestLoadConfigFrom_FileThenEnvironment(t *testing.T) {
	path := writeConfigFile(t, `
server_address: ":9090"
environment: production
log_level: debug
shutdown_timeout: 30s
allowed_origins: ["https://a.example", "https://b.example"]
domain:
  max_statement_length: 2000
  allow_cascade_detach: false
`)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("ALLOWED_ORIGINS", "https://c.example, https://d.example")

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"https://c.example", "https://d.example"}, cfg.AllowedOrigins)

	// production profile with file overrides on top
	assert.Equal(t, 2000, cfg.Domain.MaxStatementLength)
	assert.False(t, cfg.Domain.AllowCascadeDetach)
	assert.Equal(t, 8, cfg.Domain.DefaultMaxPathDepth)
	assert.Equal(t, []string{"defaults", path, "environment"}, cfg.LoadedFrom)
}

func TestLoadConfigFrom_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "unknown key", body: "not_a_key: 1\n"},
		{name: "malformed yaml", body: "server_address: [\n"},
		{name: "unknown environment", body: "environment: moon\n"},
		{name: "bad sample rate", env: map[string]string{"TRACING_SAMPLE_RATE": "2"}},
		{name: "bad domain override", body: "domain:\n  max_path_results: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.body != "" {
				path = writeConfigFile(t, tt.body)
			}
			_, err := LoadConfigFrom(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigFrom_MissingFile(t *testing.T) {
	_, err := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
