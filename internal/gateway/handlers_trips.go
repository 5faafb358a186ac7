// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jerdnaandrej777/mapab-app/internal/store"
	"github.com/jerdnaandrej777/mapab-app/pkg/types"
)

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request, userID string) {
	trips, err := s.store.ListTrips(r.Context(), userID)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trips": trips})
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request, userID string) {
	var trip types.Trip
	if err := json.NewDecoder(r.Body).Decode(&trip); err != nil {
		writeError(w, http.StatusBadRequest, newTraceID(), codeValidation, "Invalid request body", err.Error())
		return
	}
	if errs := validateTrip(&trip); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, newTraceID(), codeValidation, "Invalid request body", strings.Join(errs, ", "))
		return
	}
	trip.UserID = userID

	created, err := s.store.CreateTrip(r.Context(), trip)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"trip": created})
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request, userID string) {
	trip, err := s.store.GetTrip(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trip": trip})
}

func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request, userID string) {
	var trip types.Trip
	if err := json.NewDecoder(r.Body).Decode(&trip); err != nil {
		writeError(w, http.StatusBadRequest, newTraceID(), codeValidation, "Invalid request body", err.Error())
		return
	}
	if errs := validateTrip(&trip); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, newTraceID(), codeValidation, "Invalid request body", strings.Join(errs, ", "))
		return
	}
	trip.ID = r.PathValue("id")
	trip.UserID = userID

	updated, err := s.store.UpdateTrip(r.Context(), trip)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trip": updated})
}

func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.store.DeleteTrip(r.Context(), userID, r.PathValue("id")); err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteTrip(w http.ResponseWriter, r *http.Request, userID string) {
	trip, err := s.store.CompleteTrip(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trip": trip})
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, newTraceID(), codeNotFound, "Not found", "")
		return
	}
	s.logger.Error("storage operation failed", "error", err)
	writeError(w, http.StatusInternalServerError, newTraceID(), codeInternal, "Internal server error", "")
}
