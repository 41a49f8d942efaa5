// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/waluna/waluna/internal/cache"
)

// StatsSource is anything that reports memory cache statistics.
type StatsSource interface {
	Stats() cache.Stats
}

// CacheCollector exports the counters of the memory caches at scrape time.
type CacheCollector struct {
	mu      sync.RWMutex
	sources []StatsSource

	requestsDesc  *prometheus.Desc
	evictionsDesc *prometheus.Desc
	entriesDesc   *prometheus.Desc
}

func NewCacheCollector(sources ...StatsSource) *CacheCollector {
	return &CacheCollector{
		sources: sources,

		requestsDesc: prometheus.NewDesc(
			namespace+"_memory_cache_requests_total",
			"Memory cache lookups by cache and result",
			[]string{"cache", "result"},
			nil,
		),
		evictionsDesc: prometheus.NewDesc(
			namespace+"_memory_cache_evictions_total",
			"Entries evicted from a memory cache to make room",
			[]string{"cache"},
			nil,
		),
		entriesDesc: prometheus.NewDesc(
			namespace+"_memory_cache_entries",
			"Entries currently held by a memory cache, expired ones included until read",
			[]string{"cache"},
			nil,
		),
	}
}

// Add registers another source.
func (c *CacheCollector) Add(source StatsSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources = append(c.sources, source)
}

func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.requestsDesc
	ch <- c.evictionsDesc
	ch <- c.entriesDesc
}

func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, source := range c.sources {
		stats := source.Stats()
		ch <- prometheus.MustNewConstMetric(c.requestsDesc, prometheus.CounterValue, float64(stats.Hits), stats.Name, "hit")
		ch <- prometheus.MustNewConstMetric(c.requestsDesc, prometheus.CounterValue, float64(stats.Misses), stats.Name, "miss")
		ch <- prometheus.MustNewConstMetric(c.evictionsDesc, prometheus.CounterValue, float64(stats.Evictions), stats.Name)
		ch <- prometheus.MustNewConstMetric(c.entriesDesc, prometheus.GaugeValue, float64(stats.Entries), stats.Name)
	}
}
