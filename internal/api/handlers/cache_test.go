// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waluna/waluna/internal/cache"
)

func newPersistent(t *testing.T) *cache.Persistent {
	t.Helper()

	store := cache.NewPersistent(filepath.Join(t.TempDir(), "cache.db"))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newCacheRouter(t *testing.T) http.Handler {
	t.Helper()

	r := chi.NewRouter()
	r.Route("/cache", NewCacheHandler(newPersistent(t), nil, nil).Routes)
	return r
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCacheHandlerRoundTrip(t *testing.T) {
	t.Parallel()

	router := newCacheRouter(t)

	rec := serve(router, http.MethodGet, "/cache/anime/frieren", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Cache entry not found"}`, rec.Body.String())

	rec = serve(router, http.MethodPut, "/cache/anime/frieren", `{"value":{"title":"Sousou no Frieren","episodes":28},"ttlSeconds":60}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(router, http.MethodGet, "/cache/anime/frieren", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"store":"anime","key":"frieren","value":{"title":"Sousou no Frieren","episodes":28}}`, rec.Body.String())

	rec = serve(router, http.MethodDelete, "/cache/anime/frieren", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(router, http.MethodGet, "/cache/anime/frieren", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCacheHandlerEscapedKey(t *testing.T) {
	t.Parallel()

	router := newCacheRouter(t)

	rec := serve(router, http.MethodPut, "/cache/searchResults/dan%20da%20dan", `{"value":[]}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(router, http.MethodGet, "/cache/searchResults/dan%20da%20dan", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"store":"searchResults","key":"dan da dan","value":[]}`, rec.Body.String())
}

func TestCacheHandlerClear(t *testing.T) {
	t.Parallel()

	router := newCacheRouter(t)

	for _, key := range []string{"1", "2"} {
		rec := serve(router, http.MethodPut, "/cache/episodes/"+key, `{"value":{"number":1}}`)
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
	rec := serve(router, http.MethodPut, "/cache/anime/kept", `{"value":"x"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(router, http.MethodDelete, "/cache/episodes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"removed":2}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/cache/episodes/1", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/cache/anime/kept", "").Code)
}

func TestCacheHandlerRejectsBadInput(t *testing.T) {
	t.Parallel()

	router := newCacheRouter(t)

	tests := []struct {
		name      string
		method    string
		target    string
		body      string
		wantError string
	}{
		{name: "unknown store get", method: http.MethodGet, target: "/cache/users/1", wantError: "Unknown cache store"},
		{name: "unknown store clear", method: http.MethodDelete, target: "/cache/users", wantError: "Unknown cache store"},
		{name: "missing value", method: http.MethodPut, target: "/cache/anime/1", body: `{"ttlSeconds":5}`, wantError: "Invalid request body"},
		{name: "negative ttl", method: http.MethodPut, target: "/cache/anime/1", body: `{"value":1,"ttlSeconds":-5}`, wantError: "Invalid request body"},
		{name: "malformed body", method: http.MethodPut, target: "/cache/anime/1", body: `{"value":`, wantError: "Invalid request body"},
		{name: "image without url", method: http.MethodPost, target: "/cache/images", body: `{}`, wantError: "Invalid image URL"},
		{name: "image relative url", method: http.MethodPost, target: "/cache/images", body: `{"url":"/poster.png"}`, wantError: "Invalid image URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(router, tt.method, tt.target, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"`+tt.wantError+`"}`, rec.Body.String())
		})
	}
}

func TestCacheHandlerCacheImage(t *testing.T) {
	t.Parallel()

	router := newCacheRouter(t)
	body := `{"url":"https://img.example/frieren.jpg"}`

	rec := serve(router, http.MethodPost, "/cache/images", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"url":"https://img.example/frieren.jpg","cached":true}`, rec.Body.String())

	rec = serve(router, http.MethodPost, "/cache/images", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"url":"https://img.example/frieren.jpg","cached":false}`, rec.Body.String())

	rec = serve(router, http.MethodGet, "/cache/images/"+"https:%2F%2Fimg.example%2Ffrieren.jpg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"store":"images","key":"https://img.example/frieren.jpg","value":{"url":"https://img.example/frieren.jpg","cached":true}}`, rec.Body.String())
}

func TestCacheHandlerMemoryTier(t *testing.T) {
	t.Parallel()

	store := newPersistent(t)
	data := cache.NewStore[string, json.RawMessage](cache.DataOptions)
	images := cache.NewStore[string, bool](cache.ImageOptions)

	router := chi.NewRouter()
	router.Route("/cache", NewCacheHandler(store, data, images).Routes)

	rec := serve(router, http.MethodPut, "/cache/anime/frieren", `{"value":{"id":154587}}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, data.Has("anime/frieren"))

	// shorter than the memory TTL, so only the persistent cache holds it
	rec = serve(router, http.MethodPut, "/cache/anime/short", `{"value":1,"ttlSeconds":30}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, data.Has("anime/short"))

	// served from memory even when the row is gone
	require.NoError(t, store.Delete(context.Background(), cache.StoreAnime, "frieren"))
	rec = serve(router, http.MethodGet, "/cache/anime/frieren", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"store":"anime","key":"frieren","value":{"id":154587}}`, rec.Body.String())

	rec = serve(router, http.MethodDelete, "/cache/anime/frieren", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, data.Has("anime/frieren"))

	rec = serve(router, http.MethodPost, "/cache/images", `{"url":"https://img.example/a.jpg"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, images.Has("https://img.example/a.jpg"))

	rec = serve(router, http.MethodDelete, "/cache/images", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"removed":1}`, rec.Body.String())
	assert.Zero(t, images.Len())
}
