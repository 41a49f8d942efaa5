// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package stringutils

import (
	"time"

	"github.com/autobrr/autobrr/pkg/ttlcache"
)

const defaultNormalizerTTL = 5 * time.Minute

// TransformFunc maps an input key to its normalised value.
type TransformFunc[K, V any] func(K) V

// Normalizer memoises a transform in a ttlcache. Search results repeat the same
// series names dozens of times per query, so each distinct input is only
// transformed once per TTL window.
type Normalizer[K comparable, V any] struct {
	cache     *ttlcache.Cache[K, V]
	transform TransformFunc[K, V]
}

// NewNormalizer builds a normalizer whose entries live for ttl.
func NewNormalizer[K comparable, V any](ttl time.Duration, transform TransformFunc[K, V]) *Normalizer[K, V] {
	if ttl <= 0 {
		ttl = defaultNormalizerTTL
	}
	cache := ttlcache.New(ttlcache.Options[K, V]{}.
		SetDefaultTTL(ttl))
	return &Normalizer[K, V]{
		cache:     cache,
		transform: transform,
	}
}

// Normalize returns the cached transform of key, computing it on a miss.
func (n *Normalizer[K, V]) Normalize(key K) V {
	if cached, ok := n.cache.Get(key); ok {
		return cached
	}

	transformed := n.transform(key)
	n.cache.Set(key, transformed, ttlcache.DefaultTTL)
	return transformed
}

// Clear drops the cached value for key.
func (n *Normalizer[K, V]) Clear(key K) {
	n.cache.Delete(key)
}
