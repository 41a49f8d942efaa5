// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package api serves the torrent matching, suggestion, episode and cache
// operations over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/CAFxX/httpcompression"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/waluna/waluna/internal/api/handlers"
	"github.com/waluna/waluna/internal/api/middleware"
	"github.com/waluna/waluna/internal/cache"
	"github.com/waluna/waluna/internal/config"
	"github.com/waluna/waluna/internal/metrics"
	"github.com/waluna/waluna/internal/services/episodes"
	"github.com/waluna/waluna/internal/services/suggest"
	"github.com/waluna/waluna/internal/services/torrents"
)

const (
	readHeaderTimeout = 10 * time.Second
	// compressMinSize keeps small JSON answers uncompressed.
	compressMinSize = 1024
)

// Dependencies are the services the router exposes. Only Config is required;
// routes of a nil service are not mounted.
type Dependencies struct {
	Config     *config.AppConfig
	Torrents   *torrents.Service
	Suggest    *suggest.Service
	Episodes   *episodes.Service
	Cache      *cache.Persistent
	DataCache  *cache.Store[string, json.RawMessage]
	ImageCache *cache.Store[string, bool]
	Metrics    *metrics.Manager
}

type Server struct {
	server *http.Server
	logger zerolog.Logger
	deps   *Dependencies
}

func NewServer(deps *Dependencies) *Server {
	cfg := deps.Config.Config
	return &Server{
		server: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: log.Logger.With().Str("module", "api").Logger(),
		deps:   deps,
	}
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}
	s.server.Handler = handler

	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}

	s.logger.Info().Str("addr", listener.Addr().String()).Msg("starting http server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	s.logger.Info().Msg("shutting down http server")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// Handler builds the router.
func (s *Server) Handler() (*chi.Mux, error) {
	compress, err := httpcompression.DefaultAdapter(httpcompression.MinSize(compressMinSize))
	if err != nil {
		return nil, fmt.Errorf("create compression adapter: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(s.corsHandler())
	r.Use(compress)

	var checks []handlers.ReadinessCheck
	if s.deps.Cache != nil {
		checks = append(checks, s.deps.Cache.Init)
	}
	health := handlers.NewHealthHandler(checks...)

	r.Route("/api", func(r chi.Router) {
		r.Route("/health", health.Routes)
		r.Get("/version", handlers.HandleVersion)

		if s.deps.Torrents != nil {
			r.Route("/torrents", handlers.NewTorrentsHandler(s.deps.Torrents).Routes)
		}
		if s.deps.Suggest != nil {
			r.Get("/suggest", handlers.NewSuggestHandler(s.deps.Suggest).HandleSuggest)
		}
		if s.deps.Episodes != nil {
			r.Post("/episodes/sort", handlers.NewEpisodesHandler(s.deps.Episodes).HandleSort)
		}
		if s.deps.Cache != nil {
			r.Route("/cache", handlers.NewCacheHandler(s.deps.Cache, s.deps.DataCache, s.deps.ImageCache).Routes)
		}
	})

	if s.deps.Metrics != nil && s.deps.Config.Config.MetricsEnabled {
		r.Handle("/metrics", s.deps.Metrics.Handler())
	}

	return r, nil
}

func (s *Server) corsHandler() func(http.Handler) http.Handler {
	origins := s.deps.Config.Config.CorsAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "If-None-Match", "X-Requested-With"},
		ExposedHeaders:   []string{"ETag"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
}
