// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the request, response, and configuration types
// shared between the gateway handlers and the internal stages.
package types

// Provenance tags where a response came from: the completion endpoint or
// local deterministic synthesis.
type Provenance string

const (
	SourceAI       Provenance = "ai"
	SourceFallback Provenance = "fallback"
)

// ChatMessage is one turn of a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TripStopRef summarizes a planned stop for prompt context.
type TripStopRef struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Day      int    `json:"day,omitempty"`
}

// TripContext carries the caller's current trip state into the chat prompt.
type TripContext struct {
	RouteStart      string        `json:"routeStart,omitempty"`
	RouteEnd        string        `json:"routeEnd,omitempty"`
	DistanceKm      float64       `json:"distanceKm,omitempty"`
	DurationMinutes int           `json:"durationMinutes,omitempty"`
	Stops           []TripStopRef `json:"stops,omitempty"`
}

// ChatRequest is the body of POST /api/ai/chat.
type ChatRequest struct {
	Message string        `json:"message"`
	Context *TripContext  `json:"context,omitempty"`
	History []ChatMessage `json:"history,omitempty"`
}

// ChatResponse is the body of a successful chat reply.
type ChatResponse struct {
	Message    string     `json:"message"`
	TokensUsed int        `json:"tokensUsed,omitempty"`
	TraceID    string     `json:"traceId"`
	Source     Provenance `json:"source"`
}

// TripPlanRequest is the body of POST /api/ai/trip-plan. Either Destination
// or StartLocation must be set.
type TripPlanRequest struct {
	Destination   string   `json:"destination,omitempty"`
	StartLocation string   `json:"startLocation,omitempty"`
	Days          int      `json:"days"`
	Interests     []string `json:"interests"`
}

// TripPlanResponse is the body of a successful trip-plan reply.
type TripPlanResponse struct {
	Plan       string     `json:"plan"`
	TokensUsed int        `json:"tokensUsed,omitempty"`
	TraceID    string     `json:"traceId"`
	Source     Provenance `json:"source"`
}
