// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package workers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionAdvanceKeepsNewest(t *testing.T) {
	t.Parallel()

	s := NewSession("x")
	s.advance(5)
	s.advance(3)
	assert.Equal(t, uint64(5), s.Latest())
	s.advance(7)
	assert.Equal(t, uint64(7), s.Latest())
}

func TestSessionRegistry(t *testing.T) {
	t.Parallel()

	registry := NewSessionRegistry(0)

	a := registry.Get("tab-1")
	assert.Same(t, a, registry.Get("tab-1"))
	assert.Same(t, a, registry.Get(" tab-1 "))
	assert.NotSame(t, a, registry.Get("tab-2"))
	assert.Equal(t, "tab-1", a.Name())

	assert.NotSame(t, registry.Get(""), registry.Get(""))

	registry.Forget("tab-1")
	assert.NotSame(t, a, registry.Get("tab-1"))
}
