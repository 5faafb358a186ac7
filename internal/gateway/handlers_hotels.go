// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/jerdnaandrej777/mapab-app/pkg/types"
)

// handleHotelSearch proxies a lodging search to the Places API. The
// endpoint is disabled (503) when no Places key is configured.
func (s *Server) handleHotelSearch(w http.ResponseWriter, r *http.Request) {
	id := traceID(r.Context())
	started := time.Now()

	if s.hotels == nil {
		s.logRequest(r, http.StatusServiceUnavailable, id, time.Since(started), false)
		writeError(w, http.StatusServiceUnavailable, id, codePlacesNotConfig, "Google Places API key missing", "")
		return
	}

	var req types.HotelSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logRequest(r, http.StatusBadRequest, id, time.Since(started), false)
		writeError(w, http.StatusBadRequest, id, codeValidation, "Invalid request body", err.Error())
		return
	}
	if errs := validateHotelSearch(&req); len(errs) > 0 {
		s.logRequest(r, http.StatusBadRequest, id, time.Since(started), false)
		writeError(w, http.StatusBadRequest, id, codeValidation, "Invalid request body", strings.Join(errs, ", "))
		return
	}

	hotels, err := s.hotels.Search(r.Context(), &req)
	if err != nil {
		s.logger.Error("hotel search failed", "traceId", id, "error", err)
		s.logRequest(r, http.StatusInternalServerError, id, time.Since(started), false)
		writeError(w, http.StatusInternalServerError, id, codeHotelSearch, "Hotel search failed", "")
		return
	}

	s.logRequest(r, http.StatusOK, id, time.Since(started), false)
	writeJSON(w, http.StatusOK, map[string]any{"hotels": hotels})
}
