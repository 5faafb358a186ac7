// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/jerdnaandrej777/mapab-app/internal/completion"
	"github.com/jerdnaandrej777/mapab-app/internal/suggest"
	"github.com/jerdnaandrej777/mapab-app/pkg/types"
)

// Per-endpoint completion parameters, carried over from the client's
// expectations: chat answers stay short, trip plans get room and a higher
// temperature, suggestions run cooler and in JSON mode.
const (
	chatMaxTokens       = 1000
	chatTemperature     = 0.7
	tripPlanMaxTokens   = 2000
	tripPlanTemperature = 0.8
	tripPlanTimeout     = 20 * time.Second
	suggestMaxTokens    = 1800
	suggestTemperature  = 0.4
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	id := traceID(r.Context())
	started := time.Now()

	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logRequest(r, http.StatusBadRequest, id, time.Since(started), false)
		writeError(w, http.StatusBadRequest, id, codeValidation, "Invalid request body", err.Error())
		return
	}
	if errs := validateChatRequest(&req); len(errs) > 0 {
		s.logRequest(r, http.StatusBadRequest, id, time.Since(started), false)
		writeError(w, http.StatusBadRequest, id, codeValidation, "Invalid request body", strings.Join(errs, ", "))
		return
	}

	messages := []completion.Message{{Role: "system", Content: buildChatSystemPrompt(req.Context)}}
	for _, m := range req.History {
		if m.Role == "user" || m.Role == "assistant" {
			messages = append(messages, completion.Message{Role: m.Role, Content: m.Content})
		}
	}
	messages = append(messages, completion.Message{Role: "user", Content: req.Message})

	result, err := s.ai.Complete(r.Context(), completion.Request{
		Messages:    messages,
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
	})
	if err != nil {
		s.respondAIError(w, r, id, started, err)
		return
	}
	if result.Content == "" {
		s.logRequest(r, http.StatusInternalServerError, id, time.Since(started), false)
		writeError(w, http.StatusInternalServerError, id, codeAINoResponse, "No response from AI", "")
		return
	}

	s.logRequest(r, http.StatusOK, id, time.Since(started), false)
	writeJSON(w, http.StatusOK, types.ChatResponse{
		Message:    result.Content,
		TokensUsed: result.TokensUsed,
		TraceID:    id,
		Source:     types.SourceAI,
	})
}

func (s *Server) handleTripPlan(w http.ResponseWriter, r *http.Request) {
	id := traceID(r.Context())
	started := time.Now()

	var req types.TripPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logRequest(r, http.StatusBadRequest, id, time.Since(started), false)
		writeError(w, http.StatusBadRequest, id, codeValidation, "Invalid request body", err.Error())
		return
	}
	if errs := validateTripPlanRequest(&req); len(errs) > 0 {
		s.logRequest(r, http.StatusBadRequest, id, time.Since(started), false)
		writeError(w, http.StatusBadRequest, id, codeValidation, "Invalid request body", strings.Join(errs, ", "))
		return
	}
	if req.Destination == "" && req.StartLocation == "" {
		s.logRequest(r, http.StatusBadRequest, id, time.Since(started), false)
		writeError(w, http.StatusBadRequest, id, codeMissingLocation,
			"Either destination or startLocation must be provided", "")
		return
	}

	result, err := s.ai.Complete(r.Context(), completion.Request{
		Messages: []completion.Message{
			{Role: "system", Content: tripPlanSystemPrompt},
			{Role: "user", Content: buildTripPlanPrompt(&req)},
		},
		MaxTokens:   tripPlanMaxTokens,
		Temperature: tripPlanTemperature,
		Timeout:     tripPlanTimeout,
	})
	if err != nil {
		s.respondAIError(w, r, id, started, err)
		return
	}
	if result.Content == "" {
		s.logRequest(r, http.StatusInternalServerError, id, time.Since(started), false)
		writeError(w, http.StatusInternalServerError, id, codeAINoResponse, "No response from AI", "")
		return
	}

	s.logRequest(r, http.StatusOK, id, time.Since(started), false)
	writeJSON(w, http.StatusOK, types.TripPlanResponse{
		Plan:       result.Content,
		TokensUsed: result.TokensUsed,
		TraceID:    id,
		Source:     types.SourceAI,
	})
}

// handleSuggestions is the one endpoint with candidate data of its own, so
// a failing or unusable model is absorbed: the caller gets a locally
// synthesized result instead of an error.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	id := traceID(r.Context())
	started := time.Now()

	var req types.SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logRequest(r, http.StatusBadRequest, id, time.Since(started), false)
		writeError(w, http.StatusBadRequest, id, codeValidation, "Invalid request body", err.Error())
		return
	}
	if errs := validateSuggestRequest(&req); len(errs) > 0 {
		s.logRequest(r, http.StatusBadRequest, id, time.Since(started), false)
		writeError(w, http.StatusBadRequest, id, codeValidation, "Invalid request body", strings.Join(errs, ", "))
		return
	}

	userPrompt, err := buildSuggestionsPrompt(&req)
	if err != nil {
		s.logRequest(r, http.StatusInternalServerError, id, time.Since(started), false)
		writeError(w, http.StatusInternalServerError, id, codeInternal, "Internal server error", "")
		return
	}

	result, err := s.ai.Complete(r.Context(), completion.Request{
		Messages: []completion.Message{
			{Role: "system", Content: suggestionsSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   suggestMaxTokens,
		Temperature: suggestTemperature,
		JSONMode:    true,
	})
	if err != nil || result.Content == "" {
		if err != nil {
			s.logger.Warn("completion failed, synthesizing locally", "traceId", id, "error", err)
		}
		s.respondSuggestions(w, r, id, started, suggest.Synthesize(&req), result.TokensUsed, types.SourceFallback)
		return
	}

	validated, err := suggest.Validate(result.Content, &req)
	if err != nil {
		s.logger.Warn("model output rejected, synthesizing locally", "traceId", id, "error", err)
		s.respondSuggestions(w, r, id, started, suggest.Synthesize(&req), result.TokensUsed, types.SourceFallback)
		return
	}

	s.respondSuggestions(w, r, id, started, validated, result.TokensUsed, types.SourceAI)
}

func (s *Server) respondSuggestions(w http.ResponseWriter, r *http.Request, id string, started time.Time, set types.SuggestionSet, tokens int, source types.Provenance) {
	s.logRequest(r, http.StatusOK, id, time.Since(started), source == types.SourceFallback)
	writeJSON(w, http.StatusOK, types.SuggestResponse{
		SuggestionSet: set,
		TokensUsed:    tokens,
		TraceID:       id,
		Source:        source,
	})
}

// respondAIError maps a completion failure for endpoints without a local
// fallback: transient exhaustion reads as temporary unavailability, a fatal
// error as a configuration problem.
func (s *Server) respondAIError(w http.ResponseWriter, r *http.Request, id string, started time.Time, err error) {
	s.logger.Error("completion failed", "traceId", id, "error", err)
	if completion.IsRetryable(err) {
		s.logRequest(r, http.StatusServiceUnavailable, id, time.Since(started), false)
		writeError(w, http.StatusServiceUnavailable, id, codeAIUnavailable, "AI service temporarily unavailable", "")
		return
	}
	s.logRequest(r, http.StatusInternalServerError, id, time.Since(started), false)
	writeError(w, http.StatusInternalServerError, id, codeAIConfig, "AI service configuration error", "")
}
