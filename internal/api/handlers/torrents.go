// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/waluna/waluna/internal/services/torrents"
)

type TorrentsHandler struct {
	service *torrents.Service
}

func NewTorrentsHandler(service *torrents.Service) *TorrentsHandler {
	return &TorrentsHandler{service: service}
}

func (h *TorrentsHandler) Routes(r chi.Router) {
	r.Get("/match", h.Match)
	r.Get("/search", h.Search)
}

// Match answers GET /match?name=&season=&episode= with a MatchResult. Backend
// failures are reported as an empty result, not an error.
func (h *TorrentsHandler) Match(w http.ResponseWriter, r *http.Request) {
	name, ok := ParseRequiredQuery(w, r, "name", "Anime name")
	if !ok {
		return
	}
	season, ok := ParseOptionalIntQuery(w, r, "season", "season")
	if !ok {
		return
	}
	episode, ok := ParseOptionalIntQuery(w, r, "episode", "episode")
	if !ok {
		return
	}

	result := h.service.FilterTorrents(r.Context(), torrents.Target{
		AnimeName: name,
		Season:    season,
		Episode:   episode,
	})
	RespondJSONWithETag(w, r, result)
}

// Search answers GET /search?name= with every record built for the query.
func (h *TorrentsHandler) Search(w http.ResponseWriter, r *http.Request) {
	name, ok := ParseRequiredQuery(w, r, "name", "Anime name")
	if !ok {
		return
	}

	records, err := h.service.Records(r.Context(), name)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to search torrents")
		RespondError(w, http.StatusBadGateway, "Failed to search torrents")
		return
	}
	RespondJSONWithETag(w, r, records)
}
