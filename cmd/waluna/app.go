// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/waluna/waluna/internal/cache"
	"github.com/waluna/waluna/internal/config"
	"github.com/waluna/waluna/internal/metrics"
	"github.com/waluna/waluna/internal/services/episodes"
	"github.com/waluna/waluna/internal/services/nyaa"
	"github.com/waluna/waluna/internal/services/suggest"
	"github.com/waluna/waluna/internal/services/torrents"
	"github.com/waluna/waluna/internal/workers"
	"github.com/waluna/waluna/pkg/releases"
	"github.com/waluna/waluna/pkg/units"
)

// app holds the services shared by the commands.
type app struct {
	cfg        *config.AppConfig
	persistent *cache.Persistent
	search     *cache.Store[string, []torrents.TorrentRecord]
	data       *cache.Store[string, json.RawMessage]
	images     *cache.Store[string, bool]
	metrics    *metrics.Manager
	torrents   *torrents.Service
	suggest    *suggest.Service
	episodes   *episodes.Service
}

func loadConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.New(path)
}

func newApp(cfg *config.AppConfig) (*app, error) {
	c := cfg.Config

	filter, err := torrents.CompileResultFilter(c.ResultFilter)
	if err != nil {
		return nil, err
	}

	catalog := suggest.NewCatalogFromNames()
	if path := strings.TrimSpace(c.CatalogPath); path != "" {
		catalog, err = suggest.LoadCatalog(path)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("path", path).Int("titles", catalog.Len()).Msg("loaded suggestion catalog")
	}

	a := &app{
		cfg:        cfg,
		persistent: cache.NewPersistent(cfg.GetDatabasePath()),
		search:     cache.NewStore[string, []torrents.TorrentRecord](cache.SearchOptions),
		data:       cache.NewStore[string, json.RawMessage](cache.DataOptions),
		images:     cache.NewStore[string, bool](cache.ImageOptions),
	}
	a.metrics = metrics.NewManager(a.search, a.data, a.images)

	fetcher := nyaa.NewClient(nyaa.Config{
		BaseURL: c.SearchBackendURL,
		Timeout: c.SearchTimeoutDuration(),
		Retries: c.SearchRetries,
	})

	a.torrents = torrents.NewService(torrents.Config{
		Fetcher:    fetcher,
		Builder:    torrents.NewBuilder(releases.NewDefaultParser(), units.NewDateFormatter(c.DateLocale, time.Local)),
		Memory:     a.search,
		Persistent: a.persistent,
		Filter:     filter,
		Observer:   a.metrics,
	})

	poolOpts := workers.Options{
		Workers:  c.WorkerCount,
		Timeout:  c.WorkerTimeout(),
		Observer: a.metrics,
	}
	// each service tracks its own sessions
	a.suggest = suggest.NewService(catalog, suggest.Options{Pool: poolOpts, Sessions: workers.NewSessionRegistry(0)})
	a.episodes = episodes.NewService(episodes.Options{Pool: poolOpts, Sessions: workers.NewSessionRegistry(0)})

	return a, nil
}

func (a *app) Close() error {
	a.suggest.Close()
	a.episodes.Close()
	if err := a.persistent.Close(); err != nil {
		return fmt.Errorf("close persistent cache: %w", err)
	}
	return nil
}
