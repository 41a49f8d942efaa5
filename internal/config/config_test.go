// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
host = "localhost"
port = 7478
logLevel = "INFO"
`

func TestDatabasePathConfiguration(t *testing.T) {
	tests := []struct {
		name        string
		content     func(dir string) string
		envVars     map[string]string
		wantDBPath  func(dir string) string
		description string
	}{
		{
			name:        "default_behavior_db_next_to_config",
			content:     func(string) string { return minimalConfig },
			wantDBPath:  func(dir string) string { return filepath.Join(dir, "waluna.db") },
			description: "Database should be created next to config file when not explicitly configured",
		},
		{
			name: "data_dir",
			content: func(dir string) string {
				return minimalConfig + `dataDir = "` + filepath.Join(dir, "data") + `"` + "\n"
			},
			wantDBPath:  func(dir string) string { return filepath.Join(dir, "data", "waluna.db") },
			description: "dataDir should hold the database when databasePath is unset",
		},
		{
			name: "explicit_path_in_config",
			content: func(dir string) string {
				return minimalConfig + `databasePath = "` + filepath.Join(dir, "database", "custom.db") + `"` + "\n"
			},
			wantDBPath:  func(dir string) string { return filepath.Join(dir, "database", "custom.db") },
			description: "Database path should use explicitly configured path from config file",
		},
		{
			name:        "explicit_path_via_env_var",
			content:     func(string) string { return minimalConfig },
			envVars:     map[string]string{"WALUNA__DATABASE_PATH": "/var/db/waluna/waluna.db"},
			wantDBPath:  func(string) string { return "/var/db/waluna/waluna.db" },
			description: "Database path should use environment variable when set",
		},
		{
			name: "env_var_overrides_config",
			content: func(string) string {
				return minimalConfig + `databasePath = "/original/path.db"` + "\n"
			},
			envVars:     map[string]string{"WALUNA__DATABASE_PATH": "/override/path.db"},
			wantDBPath:  func(string) string { return "/override/path.db" },
			description: "Environment variable should override config file setting",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeConfig(t, dir, tt.content(dir))
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := New(path)
			require.NoError(t, err, tt.description)
			assert.Equal(t, tt.wantDBPath(dir), cfg.GetDatabasePath(), tt.description)
		})
	}
}

func TestNewWritesDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	cfg, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "config.toml"), cfg.Path())
	assert.FileExists(t, cfg.Path())

	content, err := os.ReadFile(cfg.Path())
	require.NoError(t, err)
	assert.Contains(t, string(content), "# config.toml - Auto-generated on first run")
	assert.Contains(t, string(content), `searchBackendUrl = "http://127.0.0.1:8080"`)

	c := cfg.Config
	assert.Equal(t, 7478, c.Port)
	assert.Equal(t, "INFO", c.LogLevel)
	assert.Equal(t, 10*time.Second, c.SearchTimeoutDuration())
	assert.Equal(t, 2, c.SearchRetries)
	assert.Equal(t, 2, c.WorkerCount)
	assert.Equal(t, 3*time.Second, c.WorkerTimeout())
	assert.Equal(t, "pt-BR", c.DateLocale)
	assert.Equal(t, time.Hour, c.JanitorInterval())
	assert.False(t, c.MetricsEnabled)
}

func TestConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, minimalConfig+`
searchBackendUrl = "http://search.internal:9000"
corsAllowedOrigins = ["http://localhost:5173"]
workerCount = 4
`)

	t.Setenv("WALUNA__SEARCH_BACKEND_URL", "http://env.internal:9100")
	t.Setenv("WALUNA__METRICS_ENABLED", "true")
	t.Setenv("WALUNA__CORS_ALLOWED_ORIGINS", "http://a.example,http://b.example")

	cfg, err := New(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env.internal:9100", cfg.Config.SearchBackendURL)
	assert.True(t, cfg.Config.MetricsEnabled)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Config.CorsAllowedOrigins)
	assert.Equal(t, 4, cfg.Config.WorkerCount)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, minimalConfig+`searchBackendUrl = "not a url"`+"\n")

	_, err := New(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "searchBackendUrl")
}

func TestEnvName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"host":                 "WALUNA__HOST",
		"databasePath":         "WALUNA__DATABASE_PATH",
		"searchBackendUrl":     "WALUNA__SEARCH_BACKEND_URL",
		"workerTimeoutMs":      "WALUNA__WORKER_TIMEOUT_MS",
		"cacheJanitorInterval": "WALUNA__CACHE_JANITOR_INTERVAL",
	}
	for key, want := range tests {
		assert.Equal(t, want, envName(key))
	}
}

func TestDockerEnvironmentCompatibility(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/config")
	assert.Equal(t, "/config", getDefaultConfigDir(), "Docker environment should use /config directly")

	t.Setenv("XDG_CONFIG_HOME", "/home/user/.config")
	assert.Equal(t, filepath.Join("/home/user/.config", "waluna"), getDefaultConfigDir())
}
