// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Re-exported chi middleware so the router only imports this package.
var (
	RequestID       = chimiddleware.RequestID
	Recoverer       = chimiddleware.Recoverer
	RealIP          = chimiddleware.RealIP
	ThrottleBacklog = chimiddleware.ThrottleBacklog
)

// Logger writes one access log line per request and turns handler panics into
// a 500 response.
func Logger(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				if rec := recover(); rec != nil {
					logger.Error().
						Str("type", "error").
						Interface("recover_info", rec).
						Bytes("debug_stack", debug.Stack()).
						Str("url", r.URL.RequestURI()).
						Str("method", r.Method).
						Msg("request panicked")
					if ww.Status() == 0 {
						http.Error(ww, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					}
				}

				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				logger.Trace().
					Str("type", "access").
					Str("request_id", chimiddleware.GetReqID(r.Context())).
					Str("remote_ip", r.RemoteAddr).
					Str("url", r.URL.RequestURI()).
					Str("proto", r.Proto).
					Str("method", r.Method).
					Str("user_agent", r.Header.Get("User-Agent")).
					Int("status", status).
					Float64("latency_ms", float64(time.Since(start).Nanoseconds())/1e6).
					Int64("bytes_in", r.ContentLength).
					Int("bytes_out", ww.BytesWritten()).
					Msg("incoming request")
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
