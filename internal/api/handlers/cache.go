// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/waluna/waluna/internal/cache"
)

// CacheHandler exposes the persistent cache. The optional memory stores front
// it: data holds entries written through Set that outlive its TTL, images holds
// recently recorded image URLs.
type CacheHandler struct {
	store  *cache.Persistent
	data   *cache.Store[string, json.RawMessage]
	images *cache.Store[string, bool]
}

func NewCacheHandler(store *cache.Persistent, data *cache.Store[string, json.RawMessage], images *cache.Store[string, bool]) *CacheHandler {
	return &CacheHandler{store: store, data: data, images: images}
}

func (h *CacheHandler) Routes(r chi.Router) {
	r.Post("/images", h.CacheImage)
	r.Delete("/{store}", h.Clear)
	r.Route("/{store}/{key}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Set)
		r.Delete("/", h.Delete)
	})
}

type CacheEntryResponse struct {
	Store string          `json:"store"`
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type SetCacheEntryRequest struct {
	Value json.RawMessage `json:"value"`
	// TTLSeconds of zero keeps the entry until it is deleted.
	TTLSeconds int `json:"ttlSeconds"`
}

type CacheImageRequest struct {
	URL string `json:"url"`
}

type CacheImageResponse struct {
	URL    string `json:"url"`
	Cached bool   `json:"cached"`
}

func (h *CacheHandler) Get(w http.ResponseWriter, r *http.Request) {
	store, key, ok := parseStoreKey(w, r)
	if !ok {
		return
	}

	if h.data != nil {
		if value, ok := h.data.Get(memoryKey(store, key)); ok {
			RespondJSON(w, http.StatusOK, CacheEntryResponse{Store: string(store), Key: key, Value: value})
			return
		}
	}

	var value json.RawMessage
	found, err := h.store.Get(r.Context(), store, key, &value)
	if err != nil {
		log.Error().Err(err).Str("store", string(store)).Str("key", key).Msg("failed to read cache entry")
		RespondError(w, http.StatusInternalServerError, "Failed to read cache entry")
		return
	}
	if !found {
		RespondError(w, http.StatusNotFound, "Cache entry not found")
		return
	}

	RespondJSON(w, http.StatusOK, CacheEntryResponse{Store: string(store), Key: key, Value: value})
}

func (h *CacheHandler) Set(w http.ResponseWriter, r *http.Request) {
	store, key, ok := parseStoreKey(w, r)
	if !ok {
		return
	}

	var req SetCacheEntryRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.Value) == 0 || req.TTLSeconds < 0 {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	if err := h.store.Set(r.Context(), store, key, req.Value, ttl); err != nil {
		log.Error().Err(err).Str("store", string(store)).Str("key", key).Msg("failed to write cache entry")
		RespondError(w, http.StatusInternalServerError, "Failed to write cache entry")
		return
	}

	if h.data != nil {
		if ttl == 0 || ttl >= h.data.TTL() {
			h.data.Set(memoryKey(store, key), req.Value)
		} else {
			h.data.Delete(memoryKey(store, key))
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CacheHandler) Delete(w http.ResponseWriter, r *http.Request) {
	store, key, ok := parseStoreKey(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), store, key); err != nil {
		log.Error().Err(err).Str("store", string(store)).Str("key", key).Msg("failed to delete cache entry")
		RespondError(w, http.StatusInternalServerError, "Failed to delete cache entry")
		return
	}
	if h.data != nil {
		h.data.Delete(memoryKey(store, key))
	}
	if h.images != nil && store == cache.StoreImages {
		h.images.Delete(key)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	store, ok := parseStore(w, r)
	if !ok {
		return
	}

	removed, err := h.store.Clear(r.Context(), store)
	if err != nil {
		log.Error().Err(err).Str("store", string(store)).Msg("failed to clear cache store")
		RespondError(w, http.StatusInternalServerError, "Failed to clear cache store")
		return
	}
	if h.data != nil {
		h.data.Clear()
	}
	if h.images != nil && store == cache.StoreImages {
		h.images.Clear()
	}

	log.Info().Str("store", string(store)).Int64("removed", removed).Msg("cleared cache store")
	RespondJSON(w, http.StatusOK, map[string]int64{"removed": removed})
}

// CacheImage records an image URL. Cached is false when a live reference
// already existed.
func (h *CacheHandler) CacheImage(w http.ResponseWriter, r *http.Request) {
	var req CacheImageRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	imageURL := strings.TrimSpace(req.URL)
	if u, err := url.Parse(imageURL); err != nil || u.Scheme == "" || u.Host == "" {
		RespondError(w, http.StatusBadRequest, "Invalid image URL")
		return
	}

	if h.images != nil && h.images.Has(imageURL) {
		RespondJSON(w, http.StatusOK, CacheImageResponse{URL: imageURL, Cached: false})
		return
	}

	added, err := h.store.CacheImageURL(r.Context(), imageURL)
	if err != nil {
		log.Error().Err(err).Str("url", imageURL).Msg("failed to cache image url")
		RespondError(w, http.StatusInternalServerError, "Failed to cache image")
		return
	}
	if h.images != nil {
		h.images.Set(imageURL, true)
	}

	RespondJSON(w, http.StatusOK, CacheImageResponse{URL: imageURL, Cached: added})
}

func memoryKey(store cache.StoreName, key string) string {
	return string(store) + "/" + key
}

func parseStore(w http.ResponseWriter, r *http.Request) (cache.StoreName, bool) {
	name, ok := ParseStringParam(w, r, "store", "Cache store")
	if !ok {
		return "", false
	}
	store, err := cache.ParseStoreName(name)
	if err != nil {
		RespondError(w, http.StatusBadRequest, "Unknown cache store")
		return "", false
	}
	return store, true
}

func parseStoreKey(w http.ResponseWriter, r *http.Request) (cache.StoreName, string, bool) {
	store, ok := parseStore(w, r)
	if !ok {
		return "", "", false
	}
	raw, ok := ParseStringParam(w, r, "key", "Cache key")
	if !ok {
		return "", "", false
	}
	key, err := url.PathUnescape(raw)
	if err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid cache key")
		return "", "", false
	}
	return store, key, true
}
