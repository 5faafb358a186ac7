// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// WeatherCondition is the caller-reported weather at the suggestion location.
type WeatherCondition string

const (
	WeatherGood    WeatherCondition = "good"
	WeatherMixed   WeatherCondition = "mixed"
	WeatherBad     WeatherCondition = "bad"
	WeatherDanger  WeatherCondition = "danger"
	WeatherUnknown WeatherCondition = "unknown"
)

// Bad reports whether the condition should steer suggestions indoors.
func (w WeatherCondition) Bad() bool {
	return w == WeatherBad || w == WeatherDanger
}

// Candidate is one caller-supplied point of interest the suggestion stage
// may rank and recommend. Candidates are immutable per request and never
// persisted by the gateway.
type Candidate struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	CategoryID       string   `json:"categoryId"`
	Lat              float64  `json:"lat"`
	Lng              float64  `json:"lng"`
	Score            float64  `json:"score"`
	MustSee          bool     `json:"isMustSee"`
	Curated          bool     `json:"isCurated"`
	Unesco           bool     `json:"isUnesco"`
	Indoor           bool     `json:"isIndoor"`
	DetourKm         *float64 `json:"detourKm,omitempty"`
	RoutePosition    *float64 `json:"routePosition,omitempty"`
	ShortDescription string   `json:"shortDescription,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

// SuggestUserContext carries the caller's location and conditions.
type SuggestUserContext struct {
	Lat          *float64         `json:"lat,omitempty"`
	Lng          *float64         `json:"lng,omitempty"`
	LocationName string           `json:"locationName,omitempty"`
	Weather      WeatherCondition `json:"weatherCondition,omitempty"`
	SelectedDay  int              `json:"selectedDay,omitempty"`
	TotalDays    int              `json:"totalDays,omitempty"`
}

// SuggestTripContext carries the current route and its planned stops.
type SuggestTripContext struct {
	RouteStart string        `json:"routeStart,omitempty"`
	RouteEnd   string        `json:"routeEnd,omitempty"`
	Stops      []TripStopRef `json:"stops,omitempty"`
}

// SuggestConstraints bounds the suggestion output.
type SuggestConstraints struct {
	// MaxSuggestions caps the returned list (default 8, at most 12).
	MaxSuggestions int `json:"maxSuggestions,omitempty"`

	// AllowSwap permits replacing an existing stop. Nil means allowed.
	AllowSwap *bool `json:"allowSwap,omitempty"`
}

// SuggestRequest is the body of POST /api/ai/poi-suggestions.
type SuggestRequest struct {
	Mode        string              `json:"mode"`
	Language    string              `json:"language,omitempty"`
	UserContext *SuggestUserContext `json:"userContext,omitempty"`
	TripContext *SuggestTripContext `json:"tripContext,omitempty"`
	Constraints *SuggestConstraints `json:"constraints,omitempty"`
	Candidates  []Candidate         `json:"candidates"`
}

// MaxSuggestions returns the effective suggestion cap.
func (r *SuggestRequest) MaxSuggestions() int {
	if r.Constraints != nil && r.Constraints.MaxSuggestions > 0 {
		return r.Constraints.MaxSuggestions
	}
	return 8
}

// AllowSwap returns whether swap suggestions are permitted.
func (r *SuggestRequest) AllowSwap() bool {
	if r.Constraints != nil && r.Constraints.AllowSwap != nil {
		return *r.Constraints.AllowSwap
	}
	return true
}

// Weather returns the effective weather condition.
func (r *SuggestRequest) Weather() WeatherCondition {
	if r.UserContext != nil && r.UserContext.Weather != "" {
		return r.UserContext.Weather
	}
	return WeatherUnknown
}

// FirstStopID returns the id of the first planned stop, or "".
func (r *SuggestRequest) FirstStopID() string {
	if r.TripContext == nil || len(r.TripContext.Stops) == 0 {
		return ""
	}
	return r.TripContext.Stops[0].ID
}

// SuggestionAction is what the caller should do with a suggested POI.
type SuggestionAction string

const (
	ActionAdd  SuggestionAction = "add"
	ActionSwap SuggestionAction = "swap"
)

// Suggestion is one recommended POI. TargetPoiID is set if and only if
// Action is "swap", and PoiID always names a member of the request's
// candidate set.
type Suggestion struct {
	PoiID           string           `json:"poiId"`
	Action          SuggestionAction `json:"action"`
	TargetPoiID     string           `json:"targetPoiId,omitempty"`
	Reason          string           `json:"reason"`
	Relevance       float64          `json:"relevance"`
	Highlights      []string         `json:"highlights"`
	LongDescription string           `json:"longDescription"`
}

// SuggestionSet is the structured suggestion payload.
type SuggestionSet struct {
	Summary     string       `json:"summary"`
	Suggestions []Suggestion `json:"suggestions"`
}

// SuggestResponse is the body of a successful suggestions reply.
type SuggestResponse struct {
	SuggestionSet
	TokensUsed int        `json:"tokensUsed,omitempty"`
	TraceID    string     `json:"traceId"`
	Source     Provenance `json:"source"`
}
