// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"net/http"

	"github.com/waluna/waluna/internal/services/suggest"
)

type SuggestHandler struct {
	service *suggest.Service
}

func NewSuggestHandler(service *suggest.Service) *SuggestHandler {
	return &SuggestHandler{service: service}
}

type SuggestResponse struct {
	Results []string `json:"results"`
}

// HandleSuggest answers GET ?term=&session=. A blank term yields no results.
func (h *SuggestHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	results := h.service.Suggest(r.Context(), query.Get("session"), query.Get("term"))
	RespondJSON(w, http.StatusOK, SuggestResponse{Results: results})
}
