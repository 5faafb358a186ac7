// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"net/http"
	"time"
)

// Version is reported by the health endpoint. The CLI overwrites it at
// startup with its build version.
var Version = "dev"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"model":     s.cfg.AI.Model,
		"storage":   s.store != nil,
	})
}
