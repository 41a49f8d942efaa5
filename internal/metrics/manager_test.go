// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waluna/waluna/internal/cache"
	"github.com/waluna/waluna/internal/services/torrents"
	"github.com/waluna/waluna/internal/workers"
)

func TestManager_GetRegistry(t *testing.T) {
	t.Parallel()

	manager := NewManager()
	registry := manager.GetRegistry()
	require.NotNil(t, registry)

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["go_goroutines"], "go collector registered")
}

func TestManager_Counters(t *testing.T) {
	t.Parallel()

	manager := NewManager()

	manager.MatchCompleted(torrents.StrategyStrict)
	manager.MatchCompleted(torrents.StrategyStrict)
	manager.MatchCompleted(torrents.StrategyNameOnly)
	manager.FetchFailed()
	manager.TaskCompleted("suggest", workers.OutcomeTimeout)

	assert.InDelta(t, 2, testutil.ToFloat64(manager.matchRequests.WithLabelValues("strict")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(manager.matchRequests.WithLabelValues("name-only")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(manager.fetchFailures), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(manager.workerTasks.WithLabelValues("suggest", "timeout")), 0)
}

func TestCacheCollector(t *testing.T) {
	t.Parallel()

	store := cache.NewStore[string, int](cache.Options{Name: "search", MaxEntries: 1})
	store.Set("a", 1)
	store.Get("a")
	store.Get("missing")
	store.Set("b", 2)

	collector := NewCacheCollector(store)

	expected := `
# HELP waluna_memory_cache_requests_total Memory cache lookups by cache and result
# TYPE waluna_memory_cache_requests_total counter
waluna_memory_cache_requests_total{cache="search",result="hit"} 1
waluna_memory_cache_requests_total{cache="search",result="miss"} 1
# HELP waluna_memory_cache_evictions_total Entries evicted from a memory cache to make room
# TYPE waluna_memory_cache_evictions_total counter
waluna_memory_cache_evictions_total{cache="search"} 1
# HELP waluna_memory_cache_entries Entries currently held by a memory cache, expired ones included until read
# TYPE waluna_memory_cache_entries gauge
waluna_memory_cache_entries{cache="search"} 1
`
	require.NoError(t, testutil.CollectAndCompare(collector, strings.NewReader(expected)))
}

func TestManager_Handler(t *testing.T) {
	t.Parallel()

	manager := NewManager(cache.NewStore[string, int](cache.ImageOptions))
	manager.AddCache(cache.NewStore[string, int](cache.DataOptions))
	manager.MatchCompleted(torrents.StrategyIgnoreSeason)

	srv := httptest.NewServer(manager.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `waluna_match_requests_total{strategy="ignore-season"} 1`)
	assert.Contains(t, string(body), `waluna_memory_cache_entries{cache="images"} 0`)
	assert.Contains(t, string(body), `waluna_memory_cache_entries{cache="data"} 0`)
}
