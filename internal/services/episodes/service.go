// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package episodes normalises upstream episode lists and sorts them on a
// worker pool.
package episodes

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/waluna/waluna/internal/workers"
)

// SortMode is the requested order.
type SortMode string

const (
	Ascending  SortMode = "ascending"
	Descending SortMode = "descending"
)

// ParseSortMode accepts ascending/asc and descending/desc. Anything else is
// ascending.
func ParseSortMode(s string) SortMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "descending", "desc":
		return Descending
	}
	return Ascending
}

// invalidEpisodesMessage is the worker protocol error for an empty list.
const invalidEpisodesMessage = "Invalid episodes"

// ErrInvalidEpisodes is returned when there is nothing to sort.
var ErrInvalidEpisodes = errors.New("invalid episodes")

// SortRequest asks the worker to sort Episodes.
type SortRequest struct {
	Episodes []Episode `json:"episodes"`
	SortMode SortMode  `json:"sortMode"`
	TaskID   uint64    `json:"taskId"`
}

// SortResponse carries the sorted list, or an error message.
type SortResponse struct {
	Sorted []Episode `json:"sorted,omitempty"`
	Error  string    `json:"error,omitempty"`
	TaskID uint64    `json:"taskId"`
}

// SortEpisodes returns a sorted copy of episodes. Missing numbers sort as 0 and
// equal numbers keep their input order.
func SortEpisodes(episodes []Episode, mode SortMode) []Episode {
	sorted := slices.Clone(episodes)
	slices.SortStableFunc(sorted, func(a, b Episode) int {
		if mode == Descending {
			return cmp.Compare(b.SortKey(), a.SortKey())
		}
		return cmp.Compare(a.SortKey(), b.SortKey())
	})
	return sorted
}

func handleSort(ctx context.Context, req SortRequest) (SortResponse, error) {
	if req.TaskID == 0 {
		req.TaskID = workers.TaskID(ctx)
	}
	if len(req.Episodes) == 0 {
		return SortResponse{Error: invalidEpisodesMessage, TaskID: req.TaskID}, nil
	}
	return SortResponse{Sorted: SortEpisodes(req.Episodes, req.SortMode), TaskID: req.TaskID}, nil
}

// Options configures a Service.
type Options struct {
	Pool     workers.Options
	Sessions *workers.SessionRegistry
}

// Service sorts episode lists off the request goroutine.
type Service struct {
	pool     *workers.Pool[SortRequest, SortResponse]
	sessions *workers.SessionRegistry
}

// NewService starts the sort workers. Call Close to stop them.
func NewService(opts Options) *Service {
	sessions := opts.Sessions
	if sessions == nil {
		sessions = workers.NewSessionRegistry(0)
	}
	poolOpts := opts.Pool
	if poolOpts.Name == "" {
		poolOpts.Name = "episodes"
	}
	return &Service{
		pool:     workers.NewPool(poolOpts, handleSort),
		sessions: sessions,
	}
}

// Sort returns episodes in the requested order. An empty list returns
// ErrInvalidEpisodes. When the worker times out, crashes or the request is
// superseded by a newer one from the same session, the input is returned
// unchanged.
func (s *Service) Sort(ctx context.Context, session string, episodes []Episode, mode SortMode) ([]Episode, error) {
	if len(episodes) == 0 {
		return episodes, ErrInvalidEpisodes
	}

	future := s.pool.SubmitSession(ctx, s.sessions.Get(session), SortRequest{Episodes: episodes, SortMode: mode})
	resp, err := future.Await(ctx)
	switch {
	case err != nil:
		log.Debug().Err(err).Uint64("task", future.ID()).Int("episodes", len(episodes)).Msg("episode sort did not complete, keeping input order")
		return episodes, nil
	case resp.TaskID != future.ID():
		log.Debug().Uint64("task", future.ID()).Uint64("got", resp.TaskID).Msg("discarding episode sort for another task")
		return episodes, nil
	case resp.Error != "":
		return episodes, ErrInvalidEpisodes
	}
	return resp.Sorted, nil
}

// Close stops the workers.
func (s *Service) Close() {
	s.pool.Close()
}
