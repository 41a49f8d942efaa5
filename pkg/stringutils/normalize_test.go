// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package stringutils

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizerCachesTransform(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	n := NewNormalizer(time.Minute, func(s string) string {
		calls.Add(1)
		return strings.ToUpper(s)
	})

	assert.Equal(t, "HELLO", n.Normalize("hello"))
	assert.Equal(t, "HELLO", n.Normalize("hello"))
	assert.Equal(t, int32(1), calls.Load())

	assert.Equal(t, "WORLD", n.Normalize("world"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestNormalizerClear(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	n := NewNormalizer(time.Minute, func(s string) int {
		calls.Add(1)
		return len(s)
	})

	assert.Equal(t, 3, n.Normalize("abc"))
	n.Clear("abc")
	assert.Equal(t, 3, n.Normalize("abc"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestNewNormalizerDefaultsTTL(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(0, strings.TrimSpace)
	assert.NotNil(t, n.cache)
	assert.Equal(t, "x", n.Normalize(" x "))
}
