// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jerdnaandrej777/mapab-app/internal/quota"
)

type contextKey int

const traceIDKey contextKey = iota

// traceID returns the request's correlation id.
func traceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}

// governed wraps a handler with a correlation id and a quota admission
// check. The check runs before anything else; a denied request never
// reaches the handler and never triggers an upstream call. The quota
// headers go out on every response, allowed or not.
func (s *Server) governed(limit int, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := newTraceID()
		r = r.WithContext(context.WithValue(r.Context(), traceIDKey, id))

		clientKey := quota.ClientKey(r)
		decision := s.governor.Admit(r.Context(), clientKey, limit, s.cfg.Quota.Window)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.UnixMilli(), 10))

		if !decision.Allowed {
			details := fmt.Sprintf("Maximum %d requests per window. Resets at %s",
				decision.Limit, decision.ResetAt.UTC().Format(time.RFC3339))
			writeError(w, http.StatusTooManyRequests, id, codeRateLimited, "Rate limit exceeded", details)
			s.logRequest(r, http.StatusTooManyRequests, id, time.Duration(0), false)
			return
		}

		next(w, r)
	}
}

// logRequest emits one structured access-log line per terminal response.
func (s *Server) logRequest(r *http.Request, status int, id string, elapsed time.Duration, fallback bool) {
	s.logger.Info("request",
		"endpoint", r.URL.Path,
		"traceId", id,
		"status", status,
		"durationMs", elapsed.Milliseconds(),
		"fallback", fallback,
		"model", s.cfg.AI.Model,
	)
}
