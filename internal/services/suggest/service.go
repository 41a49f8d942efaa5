// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package suggest offers search-as-you-type anime title suggestions from a
// local catalog, computed off the request goroutine by a worker pool.
package suggest

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/waluna/waluna/internal/workers"
)

const DefaultMaxResults = 10

var errNoCatalog = errors.New("suggestion catalog is empty")

// TermRequest asks for suggestions for one term.
type TermRequest struct {
	ID   uint64 `json:"id"`
	Term string `json:"term"`
}

// TermResponse answers a TermRequest with either results or an error.
type TermResponse struct {
	ID      uint64   `json:"id"`
	Results []string `json:"results,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Options configures a Service.
type Options struct {
	MaxResults int
	Pool       workers.Options
	Sessions   *workers.SessionRegistry
}

// Service answers suggestion requests.
type Service struct {
	catalog    *Catalog
	maxResults int
	pool       *workers.Pool[TermRequest, TermResponse]
	sessions   *workers.SessionRegistry
}

// NewService starts the suggestion workers. Call Close to stop them.
func NewService(catalog *Catalog, opts Options) *Service {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = workers.NewSessionRegistry(0)
	}
	poolOpts := opts.Pool
	if poolOpts.Name == "" {
		poolOpts.Name = "suggest"
	}

	s := &Service{
		catalog:    catalog,
		maxResults: maxResults,
		sessions:   sessions,
	}
	s.pool = workers.NewPool(poolOpts, s.handle)
	return s
}

func (s *Service) handle(ctx context.Context, req TermRequest) (TermResponse, error) {
	if req.ID == 0 {
		req.ID = workers.TaskID(ctx)
	}
	if s.catalog.Len() == 0 {
		return TermResponse{ID: req.ID, Error: errNoCatalog.Error()}, nil
	}
	return TermResponse{ID: req.ID, Results: s.catalog.Find(req.Term, s.maxResults)}, nil
}

// Suggest returns up to MaxResults titles for term. Failures, timeouts and
// requests superseded by a newer one from the same session yield an empty
// slice.
func (s *Service) Suggest(ctx context.Context, session, term string) []string {
	term = strings.TrimSpace(term)
	if term == "" {
		return []string{}
	}

	future := s.pool.SubmitSession(ctx, s.sessions.Get(session), TermRequest{Term: term})
	resp, err := future.Await(ctx)
	switch {
	case errors.Is(err, workers.ErrStale):
		log.Trace().Str("term", term).Uint64("task", future.ID()).Msg("suggestion superseded")
		return []string{}
	case err != nil:
		log.Debug().Err(err).Str("term", term).Msg("suggestion task failed")
		return []string{}
	case resp.Error != "":
		log.Debug().Str("term", term).Str("error", resp.Error).Msg("suggestion worker reported error")
		return []string{}
	}

	if resp.Results == nil {
		return []string{}
	}
	return resp.Results
}

// Close stops the workers.
func (s *Service) Close() {
	s.pool.Close()
}
