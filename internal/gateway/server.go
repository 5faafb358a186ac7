// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gateway wires the HTTP surface of the MapAB backend: the
// quota-governed AI endpoints, the trip/favorites CRUD, and health. Each AI
// handler is a small orchestrator: admit, call the completion endpoint,
// validate, and fall back to local synthesis when the model cannot deliver.
package gateway

import (
	"log/slog"
	"net/http"

	"github.com/jerdnaandrej777/mapab-app/internal/completion"
	"github.com/jerdnaandrej777/mapab-app/internal/hotels"
	"github.com/jerdnaandrej777/mapab-app/internal/quota"
	"github.com/jerdnaandrej777/mapab-app/internal/store"
	"github.com/jerdnaandrej777/mapab-app/pkg/types"
)

// Server holds the gateway's injected dependencies. Construct it once at
// startup; all fields are read-only afterwards.
type Server struct {
	cfg      types.Config
	governor *quota.Governor
	ai       completion.Client
	hotels   *hotels.Client
	store    *store.Store
	logger   *slog.Logger
}

// NewServer builds a Server. hotelClient and store may be nil, which
// disables the hotel search and trip endpoints respectively (they
// respond 503).
func NewServer(cfg types.Config, governor *quota.Governor, ai completion.Client, hotelClient *hotels.Client, st *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		governor: governor,
		ai:       ai,
		hotels:   hotelClient,
		store:    st,
		logger:   logger,
	}
}

// Handler returns the gateway's route table.
func (s *Server) Handler() http.Handler {
	limit := s.cfg.Quota.Limit
	suggestionsLimit := s.cfg.Quota.SuggestionsLimit
	if suggestionsLimit <= 0 {
		suggestionsLimit = limit
	}
	hotelsLimit := s.cfg.Quota.HotelsLimit
	if hotelsLimit <= 0 {
		hotelsLimit = defaultHotelsLimit
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("POST /api/ai/chat", s.governed(limit, s.handleChat))
	mux.HandleFunc("POST /api/ai/trip-plan", s.governed(limit, s.handleTripPlan))
	mux.HandleFunc("POST /api/ai/poi-suggestions", s.governed(suggestionsLimit, s.handleSuggestions))

	mux.HandleFunc("POST /api/hotels/search", s.governed(hotelsLimit, s.handleHotelSearch))

	mux.HandleFunc("GET /api/v1/trips", s.authed(s.handleListTrips))
	mux.HandleFunc("POST /api/v1/trips", s.authed(s.handleCreateTrip))
	mux.HandleFunc("GET /api/v1/trips/{id}", s.authed(s.handleGetTrip))
	mux.HandleFunc("PUT /api/v1/trips/{id}", s.authed(s.handleUpdateTrip))
	mux.HandleFunc("DELETE /api/v1/trips/{id}", s.authed(s.handleDeleteTrip))
	mux.HandleFunc("POST /api/v1/trips/{id}/complete", s.authed(s.handleCompleteTrip))

	mux.HandleFunc("GET /api/v1/favorites/pois", s.authed(s.handleListFavorites))
	mux.HandleFunc("POST /api/v1/favorites/pois", s.authed(s.handleAddFavorite))
	mux.HandleFunc("DELETE /api/v1/favorites/pois/{poiId}", s.authed(s.handleRemoveFavorite))

	// Method-only patterns above leave other verbs to these path patterns,
	// so a wrong method gets the error envelope instead of the mux's
	// plain-text 405.
	for _, path := range []string{
		"/api/health",
		"/api/ai/chat",
		"/api/ai/trip-plan",
		"/api/ai/poi-suggestions",
		"/api/hotels/search",
		"/api/v1/trips",
		"/api/v1/trips/{id}",
		"/api/v1/trips/{id}/complete",
		"/api/v1/favorites/pois",
		"/api/v1/favorites/pois/{poiId}",
	} {
		mux.HandleFunc(path, s.handleMethodNotAllowed)
	}

	return mux
}

const defaultHotelsLimit = 300

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, newTraceID(), codeMethodNotAllowed, "Method not allowed", "")
}

// authed requires the X-User-Id header set by the upstream auth layer.
// Session verification itself happens before the gateway; here the header
// is only the row scope for storage.
func (s *Server) authed(next func(w http.ResponseWriter, r *http.Request, userID string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-Id")
		if userID == "" {
			writeError(w, http.StatusUnauthorized, newTraceID(), codeUnauthorized, "Unauthorized", "")
			return
		}
		if s.store == nil {
			writeError(w, http.StatusServiceUnavailable, newTraceID(), codeInternal, "Storage not configured", "")
			return
		}
		next(w, r, userID)
	}
}
