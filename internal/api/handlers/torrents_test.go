// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waluna/waluna/internal/services/nyaa"
	"github.com/waluna/waluna/internal/services/torrents"
)

const (
	sceneTitle  = "DAN DA DAN S01E01 [1080p] [CR Web-DL] [AAC 2.0] [H.264-VARYG]"
	fansubTitle = "[SubsPlease] Dan Da Dan - 01 (1080p) [AA2B6C81].mkv"
)

type stubFetcher struct {
	hits []nyaa.Hit
	err  error
}

func (f stubFetcher) Search(context.Context, string) ([]nyaa.Hit, error) {
	return f.hits, f.err
}

func newTorrentsRouter(fetcher torrents.Fetcher) http.Handler {
	r := chi.NewRouter()
	r.Route("/torrents", NewTorrentsHandler(torrents.NewService(torrents.Config{Fetcher: fetcher})).Routes)
	return r
}

func TestTorrentsHandlerMatch(t *testing.T) {
	t.Parallel()

	fetcher := stubFetcher{hits: []nyaa.Hit{
		{Title: sceneTitle, Size: "1.4 GiB"},
		{Title: fansubTitle, Size: "1.3 GiB"},
	}}

	tests := []struct {
		name         string
		query        string
		wantStatus   int
		wantStrategy torrents.Strategy
		wantMatches  int
		wantError    string
	}{
		{name: "strict", query: "?name=Dan+Da+Dan&episode=1", wantStatus: http.StatusOK, wantStrategy: torrents.StrategyStrict, wantMatches: 2},
		{name: "strict with season", query: "?name=Dan+Da+Dan&season=1&episode=1", wantStatus: http.StatusOK, wantStrategy: torrents.StrategyStrict, wantMatches: 2},
		{name: "episode missing falls back", query: "?name=Dan+Da+Dan&episode=2", wantStatus: http.StatusOK, wantStrategy: torrents.StrategyIgnoreEpisode, wantMatches: 2},
		{name: "missing name", query: "?episode=1", wantStatus: http.StatusBadRequest, wantError: "Anime name is required"},
		{name: "bad episode", query: "?name=Dan+Da+Dan&episode=one", wantStatus: http.StatusBadRequest, wantError: "Invalid episode"},
		{name: "bad season", query: "?name=Dan+Da+Dan&season=-2", wantStatus: http.StatusBadRequest, wantError: "Invalid season"},
	}

	router := newTorrentsRouter(fetcher)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/torrents/match"+tt.query, nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.JSONEq(t, `{"error":"`+tt.wantError+`"}`, rec.Body.String())
				return
			}

			var result torrents.MatchResult
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
			assert.Equal(t, tt.wantStrategy, result.Strategy)
			assert.Len(t, result.Matches, tt.wantMatches)
			assert.NotEmpty(t, rec.Header().Get("ETag"))
		})
	}
}

func TestTorrentsHandlerMatchBackendFailure(t *testing.T) {
	t.Parallel()

	router := newTorrentsRouter(stubFetcher{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/torrents/match?name=Frieren&episode=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"matches":[],"partialMatches":[],"strategy":"none"}`, rec.Body.String())
}

func TestTorrentsHandlerMatchNotModified(t *testing.T) {
	t.Parallel()

	router := newTorrentsRouter(stubFetcher{hits: []nyaa.Hit{{Title: fansubTitle}}})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/torrents/match?name=Dan+Da+Dan&episode=1", nil))
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/torrents/match?name=Dan+Da+Dan&episode=1", nil)
	req.Header.Set("If-None-Match", etag)
	second := httptest.NewRecorder()
	router.ServeHTTP(second, req)

	assert.Equal(t, http.StatusNotModified, second.Code)
	assert.Equal(t, etag, second.Header().Get("ETag"))
}

func TestTorrentsHandlerSearch(t *testing.T) {
	t.Parallel()

	t.Run("records", func(t *testing.T) {
		t.Parallel()

		router := newTorrentsRouter(stubFetcher{hits: []nyaa.Hit{{Title: fansubTitle, Size: "1.3 GiB"}}})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/torrents/search?name=Dan+Da+Dan", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var records []torrents.TorrentRecord
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&records))
		require.Len(t, records, 1)
		assert.Equal(t, fansubTitle, records[0].Filename)
		assert.Equal(t, "SubsPlease", records[0].Subber)
	})

	t.Run("backend failure", func(t *testing.T) {
		t.Parallel()

		router := newTorrentsRouter(stubFetcher{err: errors.New("connection refused")})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/torrents/search?name=Frieren", nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.JSONEq(t, `{"error":"Failed to search torrents"}`, rec.Body.String())
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()

		router := newTorrentsRouter(stubFetcher{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/torrents/search?name=%20", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
