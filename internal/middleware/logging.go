// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

package middleware

import (
	"net/http"
	"time"

	"github.com/picky-app/picky-server/internal/logging"
)

// RequestLogger emits one structured log line per request on completion.
// Slow requests and server errors log at warn so they stand out at the
// default level.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &metricsResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapper, r)

		elapsed := time.Since(start)
		evt := logging.Ctx(r.Context()).Info()
		if wrapper.statusCode >= http.StatusInternalServerError || elapsed > 5*time.Second {
			evt = logging.Ctx(r.Context()).Warn()
		}
		evt.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("elapsed", elapsed).
			Str("remote", r.RemoteAddr).
			Msg("http request")
	})
}
