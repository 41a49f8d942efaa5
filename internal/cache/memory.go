// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package cache provides the bounded in-memory TTL/LRU stores and the durable
// sqlite-backed key-value cache used around torrent searches.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

const (
	DefaultTTL        = 5 * time.Minute
	DefaultMaxEntries = 100
)

// Options configures a memory Store.
type Options struct {
	// Name labels the store in metrics and logs.
	Name       string
	TTL        time.Duration
	MaxEntries int
}

// Named stores used by the service.
var (
	ImageOptions  = Options{Name: "images", TTL: 10 * time.Minute, MaxEntries: 200}
	DataOptions   = Options{Name: "data", TTL: 5 * time.Minute, MaxEntries: 100}
	SearchOptions = Options{Name: "search", TTL: 10 * time.Minute, MaxEntries: 50}
)

type entry[V any] struct {
	value   V
	expires time.Time
}

// Stats is a point-in-time view of a store's counters.
type Stats struct {
	Name      string
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
}

// Store is a size-bounded map whose entries expire after a fixed TTL. When a new
// key is added at capacity the least recently used entry is evicted. Expired
// entries are removed lazily on read. Safe for concurrent use.
type Store[K comparable, V any] struct {
	mu   sync.Mutex
	lru  *simplelru.LRU[K, entry[V]]
	opts Options
	now  func() time.Time

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewStore builds a store. Zero TTL or MaxEntries fall back to the defaults.
func NewStore[K comparable, V any](opts Options) *Store[K, V] {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}

	s := &Store[K, V]{
		opts: opts,
		now:  time.Now,
	}

	// NewLRU only fails for a non-positive size, which is ruled out above.
	s.lru, _ = simplelru.NewLRU[K, entry[V]](opts.MaxEntries, nil)
	return s
}

// SetClock replaces the time source. Intended for tests.
func (s *Store[K, V]) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Name returns the store label.
func (s *Store[K, V]) Name() string {
	return s.opts.Name
}

// TTL returns how long entries live.
func (s *Store[K, V]) TTL() time.Duration {
	return s.opts.TTL
}

// Set stores value under key with the store TTL and marks it most recently used.
func (s *Store[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lru.Add(key, entry[V]{value: value, expires: s.now().Add(s.opts.TTL)}) {
		s.evictions.Add(1)
	}
}

// Get returns the live value for key. An expired entry is deleted and reported missing.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	e, ok := s.lru.Get(key)
	if !ok {
		s.misses.Add(1)
		return zero, false
	}
	if !s.now().Before(e.expires) {
		s.lru.Remove(key)
		s.misses.Add(1)
		return zero, false
	}

	s.hits.Add(1)
	return e.value, true
}

// Has reports whether Get would find key.
func (s *Store[K, V]) Has(key K) bool {
	_, ok := s.Get(key)
	return ok
}

// Delete removes key.
func (s *Store[K, V]) Delete(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lru.Remove(key)
}

// Clear removes every entry.
func (s *Store[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lru.Purge()
}

// Len returns the number of stored entries, expired ones included.
func (s *Store[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

// Stats returns the store counters.
func (s *Store[K, V]) Stats() Stats {
	return Stats{
		Name:      s.opts.Name,
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Evictions: s.evictions.Load(),
		Entries:   s.Len(),
	}
}
