// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package config loads the waluna configuration from config.toml and WALUNA__
// environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
	"unicode"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/waluna/waluna/internal/buildinfo"
	"github.com/waluna/waluna/internal/domain"
)

const (
	envPrefix      = "WALUNA__"
	configFileName = "config.toml"
	databaseName   = "waluna.db"
	appDirName     = "waluna"
)

// keys bound to environment variables, e.g. databasePath -> WALUNA__DATABASE_PATH
var configKeys = []string{
	"host",
	"port",
	"logLevel",
	"logPath",
	"logMaxSize",
	"logMaxBackups",
	"dataDir",
	"databasePath",
	"searchBackendUrl",
	"searchTimeout",
	"searchRetries",
	"resultFilter",
	"catalogPath",
	"workerCount",
	"workerTimeoutMs",
	"dateLocale",
	"cacheJanitorInterval",
	"corsAllowedOrigins",
	"metricsEnabled",
}

type AppConfig struct {
	Config *domain.Config
	viper  *viper.Viper
	path   string

	mu        sync.Mutex
	listeners []func(*domain.Config)
}

// New loads the config at configPath. A directory means config.toml inside it;
// an empty path uses the default config directory. A missing file is created
// from the commented template.
func New(configPath string) (*AppConfig, error) {
	path, err := resolveConfigPath(configPath)
	if err != nil {
		return nil, err
	}

	if err := writeDefaultConfig(path); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	c := &AppConfig{viper: v, path: path}
	cfg, err := c.load()
	if err != nil {
		return nil, err
	}
	c.Config = cfg

	return c, nil
}

func (c *AppConfig) load() (*domain.Config, error) {
	cfg := &domain.Config{}
	if err := c.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Version = buildinfo.Version

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", c.path, err)
	}
	return cfg, nil
}

// Path returns the config file in use.
func (c *AppConfig) Path() string {
	return c.path
}

// GetDatabasePath returns databasePath when set, otherwise waluna.db inside
// dataDir, otherwise waluna.db next to the config file.
func (c *AppConfig) GetDatabasePath() string {
	if p := strings.TrimSpace(c.Config.DatabasePath); p != "" {
		return p
	}
	if dir := strings.TrimSpace(c.Config.DataDir); dir != "" {
		return filepath.Join(dir, databaseName)
	}
	return filepath.Join(filepath.Dir(c.path), databaseName)
}

// OnChange registers fn to run with the reloaded config after config.toml
// changes on disk.
func (c *AppConfig) OnChange(fn func(*domain.Config)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Watch starts watching config.toml. Invalid edits are logged and ignored.
func (c *AppConfig) Watch() {
	c.viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		cfg, err := c.load()
		if err != nil {
			log.Error().Err(err).Str("file", e.Name).Msg("ignoring invalid config change")
			return
		}

		c.mu.Lock()
		c.Config = cfg
		listeners := append([]func(*domain.Config){}, c.listeners...)
		c.mu.Unlock()

		log.Info().Str("file", e.Name).Msg("config reloaded")
		for _, fn := range listeners {
			fn(cfg)
		}
	})
	c.viper.WatchConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 7478)
	v.SetDefault("logLevel", "INFO")
	v.SetDefault("logMaxSize", 50)
	v.SetDefault("logMaxBackups", 3)
	v.SetDefault("searchBackendUrl", "http://127.0.0.1:8080")
	v.SetDefault("searchTimeout", 10)
	v.SetDefault("searchRetries", 2)
	v.SetDefault("workerCount", 2)
	v.SetDefault("workerTimeoutMs", 3000)
	v.SetDefault("dateLocale", "pt-BR")
	v.SetDefault("cacheJanitorInterval", 60)
	v.SetDefault("metricsEnabled", false)
}

func bindEnv(v *viper.Viper) error {
	for _, key := range configKeys {
		if err := v.BindEnv(key, envName(key)); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}

// envName maps a camelCase key to its WALUNA__UPPER_SNAKE variable.
func envName(key string) string {
	var b strings.Builder
	b.WriteString(envPrefix)
	for i, r := range key {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func resolveConfigPath(configPath string) (string, error) {
	configPath = strings.TrimSpace(configPath)
	if configPath == "" {
		return filepath.Join(getDefaultConfigDir(), configFileName), nil
	}

	info, err := os.Stat(configPath)
	switch {
	case err == nil && info.IsDir():
		return filepath.Join(configPath, configFileName), nil
	case err == nil, errors.Is(err, fs.ErrNotExist):
		if filepath.Ext(configPath) == "" {
			return filepath.Join(configPath, configFileName), nil
		}
		return configPath, nil
	default:
		return "", fmt.Errorf("stat config path: %w", err)
	}
}

// getDefaultConfigDir follows XDG_CONFIG_HOME. Docker images set it to /config,
// which is used as-is.
func getDefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		if xdg == "/config" {
			return xdg
		}
		return filepath.Join(xdg, appDirName)
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, appDirName)
}

func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return fmt.Errorf("parse config template: %w", err)
	}

	host := "localhost"
	if _, err := os.Stat("/.dockerenv"); err == nil {
		host = "0.0.0.0"
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct {
		Host string
		Port int
	}{Host: host, Port: 7478}); err != nil {
		return fmt.Errorf("render config template: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	log.Info().Str("path", path).Msg("created default config")
	return nil
}
