// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package workers

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/autobrr/autobrr/pkg/ttlcache"
)

// DefaultSessionIdle is how long an unused session is remembered.
const DefaultSessionIdle = 10 * time.Minute

// Session tracks the newest task id dispatched for one logical caller, such
// as a search box that fires a request per keystroke.
type Session struct {
	name   string
	latest atomic.Uint64
}

// NewSession returns an empty session.
func NewSession(name string) *Session {
	return &Session{name: name}
}

// Name returns the session name.
func (s *Session) Name() string {
	return s.name
}

// Latest returns the id of the newest task submitted for the session.
func (s *Session) Latest() uint64 {
	return s.latest.Load()
}

func (s *Session) advance(id uint64) {
	for {
		cur := s.latest.Load()
		if id <= cur || s.latest.CompareAndSwap(cur, id) {
			return
		}
	}
}

// SessionRegistry hands out sessions by name and forgets idle ones.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions *ttlcache.Cache[string, *Session]
}

// NewSessionRegistry returns a registry that drops sessions unused for idle.
func NewSessionRegistry(idle time.Duration) *SessionRegistry {
	if idle <= 0 {
		idle = DefaultSessionIdle
	}
	return &SessionRegistry{
		sessions: ttlcache.New(ttlcache.Options[string, *Session]{}.SetDefaultTTL(idle)),
	}
}

// Get returns the session called name, creating it if needed, and refreshes
// its idle timer. A blank name returns a fresh unregistered session.
func (r *SessionRegistry) Get(name string) *Session {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewSession("")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions.Get(name)
	if !ok {
		s = NewSession(name)
	}
	r.sessions.Set(name, s, ttlcache.DefaultTTL)
	return s
}

// Forget drops the session called name.
func (r *SessionRegistry) Forget(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions.Delete(strings.TrimSpace(name))
}
