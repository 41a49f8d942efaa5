// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/waluna/waluna/internal/services/episodes"
	"github.com/waluna/waluna/internal/workers"
)

func TestEpisodesHandlerSort(t *testing.T) {
	t.Parallel()

	svc := episodes.NewService(episodes.Options{Pool: workers.Options{Workers: 2, Timeout: time.Second}})
	t.Cleanup(svc.Close)

	router := chi.NewRouter()
	router.Post("/episodes/sort", NewEpisodesHandler(svc).HandleSort)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "ascending mixed fields",
			body:       `{"episodes":[{"title":"b","number":2},{"title":"a","ep":1}],"sortMode":"asc","session":"tab-1"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"sorted":[{"title":"a","ep":1,"episodeNumber":1},{"title":"b","number":2,"episodeNumber":2}]}`,
		},
		{
			name:       "descending",
			body:       `{"episodes":[{"title":"a","episode":1},{"title":"c","episodeNumber":3},{"title":"b","number":"2"}],"sortMode":"descending"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"sorted":[{"title":"c","episodeNumber":3},{"title":"b","number":"2","episodeNumber":2},{"title":"a","episode":1,"episodeNumber":1}]}`,
		},
		{
			name:       "no episodes",
			body:       `{"episodes":[],"sortMode":"asc"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid episodes"}`,
		},
		{
			name:       "malformed",
			body:       `{"episodes":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid request body"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(router, http.MethodPost, "/episodes/sort", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
