// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package hotels proxies lodging search to the Google Places API: a nearby
// search around the requested point, per-place detail lookups, then local
// shaping into the client's hotel result format.
package hotels

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jerdnaandrej777/mapab-app/pkg/types"
)

// Places endpoint bases. Declared as vars so tests can substitute
// httptest servers.
var (
	nearbySearchBase = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
	placeDetailsBase = "https://maps.googleapis.com/maps/api/place/details/json"
)

// detailFields lists the Place Details fields the response shaping needs.
const detailFields = "place_id,name,rating,user_ratings_total,formatted_address,formatted_phone_number,website,editorial_summary,reviews,types"

// Client searches hotels through the Places API.
type Client struct {
	APIKey             string
	BookingAffiliateID string
	HTTPClient         *http.Client

	// now supplies the date for default check-in; injectable for tests.
	now func() time.Time
}

// NewClient builds a hotel search client from config.
func NewClient(cfg types.HotelsConfig) *Client {
	return &Client{
		APIKey:             cfg.APIKey,
		BookingAffiliateID: cfg.BookingAffiliateID,
		now:                time.Now,
	}
}

// wire structures for the Places API.

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type placeGeometry struct {
	Location *latLng `json:"location"`
}

type nearbyPlace struct {
	PlaceID          string         `json:"place_id"`
	Name             string         `json:"name"`
	Rating           *float64       `json:"rating"`
	UserRatingsTotal *int           `json:"user_ratings_total"`
	Vicinity         string         `json:"vicinity"`
	Geometry         *placeGeometry `json:"geometry"`
	Types            []string       `json:"types"`
}

type nearbyResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Results      []nearbyPlace `json:"results"`
}

type editorialSummary struct {
	Overview string `json:"overview"`
}

type placeReview struct {
	Text string `json:"text"`
}

type placeDetail struct {
	PlaceID          string            `json:"place_id"`
	Name             string            `json:"name"`
	Rating           *float64          `json:"rating"`
	UserRatingsTotal *int              `json:"user_ratings_total"`
	FormattedAddress string            `json:"formatted_address"`
	FormattedPhone   string            `json:"formatted_phone_number"`
	Website          string            `json:"website"`
	EditorialSummary *editorialSummary `json:"editorial_summary"`
	Reviews          []placeReview     `json:"reviews"`
	Types            []string          `json:"types"`
}

type detailsResponse struct {
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message"`
	Result       *placeDetail `json:"result"`
}

func (c *Client) nearbyHotels(ctx context.Context, lat, lng float64, radiusMeters int, language string, max int) ([]nearbyPlace, error) {
	params := url.Values{}
	params.Set("key", c.APIKey)
	params.Set("location", fmt.Sprintf("%g,%g", lat, lng))
	params.Set("radius", fmt.Sprint(radiusMeters))
	params.Set("type", "lodging")
	params.Set("language", language)

	var payload nearbyResponse
	if err := c.get(ctx, nearbySearchBase+"?"+params.Encode(), &payload); err != nil {
		return nil, err
	}
	if payload.Status != "OK" && payload.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("nearby search failed: %s %s", payload.Status, payload.ErrorMessage)
	}

	results := payload.Results
	if len(results) > max {
		results = results[:max]
	}
	return results, nil
}

// placeDetails fetches one place's details. A failed or non-OK lookup
// returns nil; the caller falls back to the nearby-search fields.
func (c *Client) placeDetails(ctx context.Context, placeID, language string) *placeDetail {
	params := url.Values{}
	params.Set("key", c.APIKey)
	params.Set("place_id", placeID)
	params.Set("fields", detailFields)
	params.Set("language", language)
	params.Set("reviews_no_translations", "true")

	var payload detailsResponse
	if err := c.get(ctx, placeDetailsBase+"?"+params.Encode(), &payload); err != nil {
		return nil
	}
	if payload.Status != "OK" && payload.Status != "ZERO_RESULTS" {
		return nil
	}
	return payload.Result
}

func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating places request: %w", err)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("calling places endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places endpoint returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding places response: %w", err)
	}
	return nil
}
