// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/waluna/waluna/internal/buildinfo"
)

// HandleVersion writes the build information.
func HandleVersion(w http.ResponseWriter, r *http.Request) {
	data, err := buildinfo.JSON()
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "Failed to encode version")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Debug().Err(err).Msg("failed to write version response")
	}
}
