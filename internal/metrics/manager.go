// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/waluna/waluna/internal/services/torrents"
	"github.com/waluna/waluna/internal/workers"
)

const namespace = "waluna"

// Manager owns the metrics registry and the service counters. It satisfies the
// torrents and workers observer interfaces.
type Manager struct {
	registry       *prometheus.Registry
	cacheCollector *CacheCollector

	matchRequests *prometheus.CounterVec
	fetchFailures prometheus.Counter
	workerTasks   *prometheus.CounterVec
}

var (
	_ torrents.Observer = (*Manager)(nil)
	_ workers.Observer  = (*Manager)(nil)
)

func NewManager(caches ...StatsSource) *Manager {
	registry := prometheus.NewRegistry()

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Manager{
		registry:       registry,
		cacheCollector: NewCacheCollector(caches...),
		matchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_requests_total",
			Help:      "Torrent match requests by the ladder rung that produced the matches",
		}, []string{"strategy"}),
		fetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Search backend requests that failed after retries",
		}),
		workerTasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_tasks_total",
			Help:      "Worker pool tasks by pool and outcome",
		}, []string{"pool", "outcome"}),
	}

	registry.MustRegister(m.cacheCollector, m.matchRequests, m.fetchFailures, m.workerTasks)

	log.Debug().Int("caches", len(caches)).Msg("Metrics manager initialized")
	return m
}

func (m *Manager) GetRegistry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      &promLogger{},
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// AddCache registers another memory cache with the cache collector.
func (m *Manager) AddCache(source StatsSource) {
	m.cacheCollector.Add(source)
}

func (m *Manager) MatchCompleted(strategy torrents.Strategy) {
	m.matchRequests.WithLabelValues(string(strategy)).Inc()
}

func (m *Manager) FetchFailed() {
	m.fetchFailures.Inc()
}

func (m *Manager) TaskCompleted(pool string, outcome workers.Outcome) {
	m.workerTasks.WithLabelValues(pool, string(outcome)).Inc()
}

// promLogger adapts zerolog to promhttp's error logger.
type promLogger struct{}

func (promLogger) Println(v ...any) {
	log.Error().Msg("metrics: " + fmt.Sprint(v...))
}
