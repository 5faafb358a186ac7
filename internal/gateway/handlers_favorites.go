// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jerdnaandrej777/mapab-app/pkg/types"
)

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request, userID string) {
	favorites, err := s.store.ListFavorites(r.Context(), userID)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"favorites": favorites})
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request, userID string) {
	var poi types.FavoritePOI
	if err := json.NewDecoder(r.Body).Decode(&poi); err != nil {
		writeError(w, http.StatusBadRequest, newTraceID(), codeValidation, "Invalid request body", err.Error())
		return
	}
	if errs := validateFavorite(&poi); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, newTraceID(), codeValidation, "Invalid request body", strings.Join(errs, ", "))
		return
	}

	if err := s.store.AddFavorite(r.Context(), userID, poi); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"favorite": poi})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.store.RemoveFavorite(r.Context(), userID, r.PathValue("poiId")); err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
