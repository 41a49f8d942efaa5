// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Version       string
	Host          string `toml:"host" mapstructure:"host"`
	Port          int    `toml:"port" mapstructure:"port"`
	LogLevel      string `toml:"logLevel" mapstructure:"logLevel"`
	LogPath       string `toml:"logPath" mapstructure:"logPath"`
	LogMaxSize    int    `toml:"logMaxSize" mapstructure:"logMaxSize"`
	LogMaxBackups int    `toml:"logMaxBackups" mapstructure:"logMaxBackups"`
	DataDir       string `toml:"dataDir" mapstructure:"dataDir"`
	DatabasePath  string `toml:"databasePath" mapstructure:"databasePath"`

	// SearchBackendURL is the base URL of the torrent search backend. Queries are
	// sent to {SearchBackendURL}/search?q=...&pretty=1.
	SearchBackendURL string `toml:"searchBackendUrl" mapstructure:"searchBackendUrl"`
	// SearchTimeout is the per-request timeout in seconds.
	SearchTimeout int `toml:"searchTimeout" mapstructure:"searchTimeout"`
	SearchRetries int `toml:"searchRetries" mapstructure:"searchRetries"`

	// ResultFilter is an optional expression evaluated against every matched
	// torrent, e.g. `quality == "1080p" && seeders > 0`. Empty keeps everything.
	ResultFilter string `toml:"resultFilter" mapstructure:"resultFilter"`

	CatalogPath     string `toml:"catalogPath" mapstructure:"catalogPath"`
	WorkerCount     int    `toml:"workerCount" mapstructure:"workerCount"`
	WorkerTimeoutMs int    `toml:"workerTimeoutMs" mapstructure:"workerTimeoutMs"`

	DateLocale string `toml:"dateLocale" mapstructure:"dateLocale"`

	// CacheJanitorInterval is how often expired persistent cache rows are purged, in minutes.
	CacheJanitorInterval int `toml:"cacheJanitorInterval" mapstructure:"cacheJanitorInterval"`

	CorsAllowedOrigins []string `toml:"corsAllowedOrigins" mapstructure:"corsAllowedOrigins"`
	MetricsEnabled     bool     `toml:"metricsEnabled" mapstructure:"metricsEnabled"`
}

// SearchTimeoutDuration returns SearchTimeout as a duration.
func (c *Config) SearchTimeoutDuration() time.Duration {
	return time.Duration(c.SearchTimeout) * time.Second
}

// WorkerTimeout returns WorkerTimeoutMs as a duration.
func (c *Config) WorkerTimeout() time.Duration {
	return time.Duration(c.WorkerTimeoutMs) * time.Millisecond
}

// JanitorInterval returns CacheJanitorInterval as a duration. Zero disables the janitor.
func (c *Config) JanitorInterval() time.Duration {
	return time.Duration(c.CacheJanitorInterval) * time.Minute
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Port))
	}

	backend, err := url.Parse(strings.TrimSpace(c.SearchBackendURL))
	if err != nil || backend.Scheme == "" || backend.Host == "" {
		errs = append(errs, fmt.Errorf("invalid searchBackendUrl %q", c.SearchBackendURL))
	}

	if c.SearchTimeout < 0 {
		errs = append(errs, errors.New("searchTimeout must not be negative"))
	}
	if c.SearchRetries < 0 {
		errs = append(errs, errors.New("searchRetries must not be negative"))
	}
	if c.WorkerCount < 0 {
		errs = append(errs, errors.New("workerCount must not be negative"))
	}
	if c.WorkerTimeoutMs < 0 {
		errs = append(errs, errors.New("workerTimeoutMs must not be negative"))
	}

	for _, origin := range c.CorsAllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid corsAllowedOrigins entry %q", origin))
		}
	}

	return errors.Join(errs...)
}
