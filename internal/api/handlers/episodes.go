// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"errors"
	"net/http"

	"github.com/waluna/waluna/internal/services/episodes"
)

type EpisodesHandler struct {
	service *episodes.Service
}

func NewEpisodesHandler(service *episodes.Service) *EpisodesHandler {
	return &EpisodesHandler{service: service}
}

type SortEpisodesRequest struct {
	Episodes []episodes.Episode `json:"episodes"`
	SortMode string             `json:"sortMode"`
	Session  string             `json:"session"`
}

type SortEpisodesResponse struct {
	Sorted []episodes.Episode `json:"sorted"`
}

// HandleSort answers POST with the episodes in the requested order.
func (h *EpisodesHandler) HandleSort(w http.ResponseWriter, r *http.Request) {
	var req SortEpisodesRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	sorted, err := h.service.Sort(r.Context(), req.Session, req.Episodes, episodes.ParseSortMode(req.SortMode))
	if err != nil {
		if errors.Is(err, episodes.ErrInvalidEpisodes) {
			RespondError(w, http.StatusBadRequest, "Invalid episodes")
			return
		}
		RespondError(w, http.StatusInternalServerError, "Failed to sort episodes")
		return
	}
	RespondJSON(w, http.StatusOK, SortEpisodesResponse{Sorted: sorted})
}
