// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jerdnaandrej777/mapab-app/pkg/types"
)

// Request validation. Each function collects field-path violations the way
// the client SDK reports them; an empty result means the request is usable.

func validateChatRequest(req *types.ChatRequest) []string {
	var errs []string
	if strings.TrimSpace(req.Message) == "" {
		errs = append(errs, "message: must not be empty")
	}
	if len(req.Message) > 4000 {
		errs = append(errs, "message: must be at most 4000 characters")
	}
	if len(req.History) > 20 {
		errs = append(errs, "history: at most 20 messages")
	}
	for i, m := range req.History {
		if m.Role != "user" && m.Role != "assistant" && m.Role != "system" {
			errs = append(errs, fmt.Sprintf("history.%d.role: unknown role %q", i, m.Role))
		}
	}
	return errs
}

func validateTripPlanRequest(req *types.TripPlanRequest) []string {
	var errs []string
	if req.Days < 1 || req.Days > 7 {
		errs = append(errs, "days: must be between 1 and 7")
	}
	if len(req.Interests) < 1 {
		errs = append(errs, "interests: at least one required")
	}
	if len(req.Interests) > 10 {
		errs = append(errs, "interests: at most 10")
	}
	if len(req.Destination) > 200 {
		errs = append(errs, "destination: must be at most 200 characters")
	}
	if len(req.StartLocation) > 200 {
		errs = append(errs, "startLocation: must be at most 200 characters")
	}
	return errs
}

func validateSuggestRequest(req *types.SuggestRequest) []string {
	var errs []string
	if req.Mode != "day_editor" && req.Mode != "chat_nearby" {
		errs = append(errs, fmt.Sprintf("mode: must be day_editor or chat_nearby, got %q", req.Mode))
	}
	if len(req.Candidates) < 1 {
		errs = append(errs, "candidates: at least one required")
	}
	if len(req.Candidates) > 60 {
		errs = append(errs, "candidates: at most 60")
	}
	for i, c := range req.Candidates {
		if c.ID == "" {
			errs = append(errs, fmt.Sprintf("candidates.%d.id: must not be empty", i))
		}
		if c.Name == "" {
			errs = append(errs, fmt.Sprintf("candidates.%d.name: must not be empty", i))
		}
		if c.CategoryID == "" {
			errs = append(errs, fmt.Sprintf("candidates.%d.categoryId: must not be empty", i))
		}
	}
	if req.Constraints != nil && req.Constraints.MaxSuggestions > 12 {
		errs = append(errs, "constraints.maxSuggestions: at most 12")
	}
	return errs
}

var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func validateHotelSearch(req *types.HotelSearchRequest) []string {
	var errs []string
	if req.Lat < -90 || req.Lat > 90 {
		errs = append(errs, "lat: must be between -90 and 90")
	}
	if req.Lng < -180 || req.Lng > 180 {
		errs = append(errs, "lng: must be between -180 and 180")
	}
	if req.RadiusKm < 0 || req.RadiusKm > 20 {
		errs = append(errs, "radiusKm: must be between 0 and 20")
	}
	if req.Limit < 0 || req.Limit > 20 {
		errs = append(errs, "limit: must be between 1 and 20")
	}
	if req.CheckInDate != "" && !dateFormat.MatchString(req.CheckInDate) {
		errs = append(errs, "checkInDate: must be YYYY-MM-DD")
	}
	if req.CheckOutDate != "" && !dateFormat.MatchString(req.CheckOutDate) {
		errs = append(errs, "checkOutDate: must be YYYY-MM-DD")
	}
	if req.Language != "" && (len(req.Language) < 2 || len(req.Language) > 5) {
		errs = append(errs, "language: must be 2 to 5 characters")
	}
	if req.DayIndex < 0 || req.DayIndex > 30 {
		errs = append(errs, "dayIndex: must be between 1 and 30")
	}
	return errs
}

func validateTrip(trip *types.Trip) []string {
	var errs []string
	if strings.TrimSpace(trip.Name) == "" {
		errs = append(errs, "name: must not be empty")
	}
	if len(trip.Name) > 200 {
		errs = append(errs, "name: must be at most 200 characters")
	}
	for i, s := range trip.Stops {
		if s.PoiID == "" {
			errs = append(errs, fmt.Sprintf("stops.%d.poiId: must not be empty", i))
		}
		if s.Name == "" {
			errs = append(errs, fmt.Sprintf("stops.%d.name: must not be empty", i))
		}
	}
	return errs
}

func validateFavorite(poi *types.FavoritePOI) []string {
	var errs []string
	if poi.PoiID == "" {
		errs = append(errs, "poiId: must not be empty")
	}
	if poi.Name == "" {
		errs = append(errs, "name: must not be empty")
	}
	return errs
}
