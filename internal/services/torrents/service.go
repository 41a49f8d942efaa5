// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package torrents builds structured torrent records from search hits and
// filters them down to the ones that match a requested anime episode.
package torrents

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/waluna/waluna/internal/cache"
	"github.com/waluna/waluna/internal/services/nyaa"
	"github.com/waluna/waluna/pkg/stringutils"
)

// DefaultResultTTL is how long fetched record sets stay in the persistent cache.
const DefaultResultTTL = 24 * time.Hour

// Fetcher returns the raw hits for a sanitised query.
type Fetcher interface {
	Search(ctx context.Context, query string) ([]nyaa.Hit, error)
}

// Observer receives match and fetch outcomes, typically for metrics.
type Observer interface {
	MatchCompleted(strategy Strategy)
	FetchFailed()
}

// Config wires a Service. Fetcher is required; Memory and Persistent are
// optional cache tiers.
type Config struct {
	Fetcher    Fetcher
	Builder    *Builder
	Memory     *cache.Store[string, []TorrentRecord]
	Persistent *cache.Persistent
	ResultTTL  time.Duration
	Filter     *ResultFilter
	Observer   Observer
}

// Service answers torrent match requests.
type Service struct {
	fetcher    Fetcher
	builder    *Builder
	memory     *cache.Store[string, []TorrentRecord]
	persistent *cache.Persistent
	resultTTL  time.Duration
	filter     *ResultFilter
	observer   Observer
}

// NewService creates a Service from cfg.
func NewService(cfg Config) *Service {
	builder := cfg.Builder
	if builder == nil {
		builder = NewBuilder(nil, nil)
	}
	ttl := cfg.ResultTTL
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	return &Service{
		fetcher:    cfg.Fetcher,
		builder:    builder,
		memory:     cfg.Memory,
		persistent: cfg.Persistent,
		resultTTL:  ttl,
		filter:     cfg.Filter,
		observer:   cfg.Observer,
	}
}

// FilterTorrents returns the records matching target. It never fails: a
// backend error, an empty name or an empty result all yield an empty result.
func (s *Service) FilterTorrents(ctx context.Context, target Target) MatchResult {
	query := stringutils.Sanitize(target.AnimeName)
	if query == "" {
		s.observeMatch(StrategyNone)
		return emptyResult()
	}

	records, err := s.records(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("torrent search failed")
		s.observeMatch(StrategyNone)
		return emptyResult()
	}

	result := s.filter.ApplyResult(Match(records, target))

	log.Debug().
		Str("query", query).
		Int("candidates", len(records)).
		Int("matches", len(result.Matches)).
		Int("partialMatches", len(result.PartialMatches)).
		Str("strategy", string(result.Strategy)).
		Msg("filtered torrents")

	s.observeMatch(result.Strategy)
	return result
}

// Records returns the records for name, consulting the memory cache, then the
// persistent cache, then the backend. Only successful non-empty fetches are
// cached. The configured result filter is applied to the returned records.
func (s *Service) Records(ctx context.Context, name string) ([]TorrentRecord, error) {
	query := stringutils.Sanitize(name)
	if query == "" {
		return []TorrentRecord{}, nil
	}

	records, err := s.records(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.filter.Apply(records), nil
}

func (s *Service) records(ctx context.Context, query string) ([]TorrentRecord, error) {
	if s.memory != nil {
		if records, ok := s.memory.Get(query); ok {
			return records, nil
		}
	}

	if records, ok := s.loadPersistent(ctx, query); ok {
		if s.memory != nil {
			s.memory.Set(query, records)
		}
		return records, nil
	}

	if s.fetcher == nil {
		return []TorrentRecord{}, nil
	}

	hits, err := s.fetcher.Search(ctx, query)
	if err != nil {
		if s.observer != nil {
			s.observer.FetchFailed()
		}
		return nil, err
	}

	records := s.builder.BuildAll(hits, query)
	if len(records) == 0 {
		return records, nil
	}

	if s.memory != nil {
		s.memory.Set(query, records)
	}
	s.storePersistent(ctx, query, records)
	return records, nil
}

func (s *Service) loadPersistent(ctx context.Context, query string) ([]TorrentRecord, bool) {
	if s.persistent == nil {
		return nil, false
	}

	var records []TorrentRecord
	found, err := s.persistent.Get(ctx, cache.StoreSearchResults, query, &records)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("failed to read cached search results")
		return nil, false
	}
	if !found || len(records) == 0 {
		return nil, false
	}
	return records, true
}

func (s *Service) storePersistent(ctx context.Context, query string, records []TorrentRecord) {
	if s.persistent == nil {
		return
	}
	if err := s.persistent.Set(ctx, cache.StoreSearchResults, query, records, s.resultTTL); err != nil {
		log.Warn().Err(err).Str("query", query).Msg("failed to cache search results")
	}
}

func (s *Service) observeMatch(strategy Strategy) {
	if s.observer != nil {
		s.observer.MatchCompleted(strategy)
	}
}
