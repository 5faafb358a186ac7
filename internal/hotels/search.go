// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hotels

import (
	"context"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jerdnaandrej777/mapab-app/pkg/types"
)

const (
	defaultRadiusKm = 20.0
	maxRadiusKm     = 20.0
	defaultLimit    = 8
	maxLimit        = 20

	// radiusSlackKm tolerates Places results slightly past the requested
	// radius before dropping them.
	radiusSlackKm = 0.3

	// verifiedReviewCount is the review count at which a result counts as
	// verified; results below it (but with at least one review) are dropped
	// when any verified or review-less result exists.
	verifiedReviewCount = 10

	earthRadiusKm = 6371
)

// Search runs a nearby lodging search and shapes the results: distance
// filter, detail enrichment, review threshold, sorted by distance.
func (c *Client) Search(ctx context.Context, req *types.HotelSearchRequest) ([]types.Hotel, error) {
	radiusKm := req.RadiusKm
	if radiusKm <= 0 {
		radiusKm = defaultRadiusKm
	}
	radiusKm = math.Min(maxRadiusKm, math.Max(1, radiusKm))

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(maxLimit, max(1, limit))

	language := strings.TrimSpace(req.Language)
	if len(language) < 2 {
		language = "de"
	}

	fetchMax := max(limit*2, 12)
	nearby, err := c.nearbyHotels(ctx, req.Lat, req.Lng, int(math.Round(radiusKm*1000)), language, fetchMax)
	if err != nil {
		return nil, err
	}
	if len(nearby) == 0 {
		return []types.Hotel{}, nil
	}
	if len(nearby) > limit {
		nearby = nearby[:limit]
	}

	checkIn := req.CheckInDate
	if checkIn == "" {
		checkIn = c.now().UTC().Format("2006-01-02")
	}
	checkOut := req.CheckOutDate
	if checkOut == "" {
		day, err := time.Parse("2006-01-02", checkIn)
		if err != nil {
			day = c.now().UTC()
		}
		checkOut = day.AddDate(0, 0, 1).Format("2006-01-02")
	}

	hotels := make([]types.Hotel, 0, len(nearby))
	for _, place := range nearby {
		if place.Geometry == nil || place.Geometry.Location == nil {
			continue
		}
		lat, lng := place.Geometry.Location.Lat, place.Geometry.Location.Lng

		distanceKm := haversineKm(req.Lat, req.Lng, lat, lng)
		if distanceKm > radiusKm+radiusSlackKm {
			continue
		}

		detail := c.placeDetails(ctx, place.PlaceID, language)

		name := place.Name
		rating := place.Rating
		reviewCount := place.UserRatingsTotal
		address := place.Vicinity
		placeTypes := place.Types
		var phone, website string
		if detail != nil {
			if detail.Name != "" {
				name = detail.Name
			}
			if detail.Rating != nil {
				rating = detail.Rating
			}
			if detail.UserRatingsTotal != nil {
				reviewCount = detail.UserRatingsTotal
			}
			if detail.FormattedAddress != "" {
				address = detail.FormattedAddress
			}
			if len(placeTypes) == 0 {
				placeTypes = detail.Types
			}
			phone = detail.FormattedPhone
			website = detail.Website
		}
		if name == "" {
			name = "Hotel"
		}

		quality := types.HotelQualityLimited
		if reviewCount != nil && *reviewCount >= verifiedReviewCount {
			quality = types.HotelQualityVerified
		}

		hotels = append(hotels, types.Hotel{
			ID:          place.PlaceID,
			PlaceID:     place.PlaceID,
			Name:        name,
			Type:        lodgingType(placeTypes),
			Lat:         lat,
			Lng:         lng,
			DistanceKm:  math.Round(distanceKm*100) / 100,
			Rating:      rating,
			ReviewCount: reviewCount,
			Highlights:  highlights(detail),
			Amenities:   inferAmenities(detail),
			Address:     address,
			Phone:       phone,
			Website:     website,
			BookingURL:  c.bookingURL(name, lat, lng, checkIn, checkOut),
			Source:      "google_places",
			DataQuality: quality,
		})
	}

	hotels = applyReviewThreshold(hotels)
	sort.SliceStable(hotels, func(i, j int) bool { return hotels[i].DistanceKm < hotels[j].DistanceKm })
	if len(hotels) > limit {
		hotels = hotels[:limit]
	}
	return hotels, nil
}

// applyReviewThreshold drops sparsely reviewed results when better ones
// exist. Results with no reviews at all are kept either way; when nothing
// clears the bar, everything is returned flagged as sparsely reviewed.
func applyReviewThreshold(hotels []types.Hotel) []types.Hotel {
	if len(hotels) == 0 {
		return hotels
	}

	strict := make([]types.Hotel, 0, len(hotels))
	for _, h := range hotels {
		if h.ReviewCount == nil || *h.ReviewCount <= 0 || *h.ReviewCount >= verifiedReviewCount {
			strict = append(strict, h)
		}
	}
	if len(strict) > 0 {
		return strict
	}

	for i := range hotels {
		hotels[i].DataQuality = types.HotelQualityFewReviews
	}
	return hotels
}

func lodgingType(placeTypes []string) string {
	for _, t := range placeTypes {
		switch strings.ToLower(t) {
		case "hostel":
			return "hostel"
		case "guest_house":
			return "guest_house"
		case "motel":
			return "motel"
		}
	}
	return "hotel"
}

// highlights collects the editorial overview and up to two review
// snippets, deduplicated, each capped at 160 characters.
func highlights(detail *placeDetail) []string {
	var raw []string
	if detail != nil {
		if detail.EditorialSummary != nil && detail.EditorialSummary.Overview != "" {
			raw = append(raw, detail.EditorialSummary.Overview)
		}
		snippets := 0
		for _, r := range detail.Reviews {
			text := strings.TrimSpace(r.Text)
			if text == "" {
				continue
			}
			raw = append(raw, text)
			snippets++
			if snippets == 2 {
				break
			}
		}
	}

	seen := make(map[string]bool)
	result := make([]string, 0, len(raw))
	for _, text := range raw {
		if len(text) > 160 {
			text = text[:157] + "..."
		}
		if seen[text] {
			continue
		}
		seen[text] = true
		result = append(result, text)
	}
	return result
}

// amenityKeywords maps each amenity to the substrings that signal it in
// editorial and review text.
var amenityKeywords = map[string][]string{
	"wifi":       {"wifi", "wlan", "internet"},
	"parking":    {"parking", "parkplatz", "garage"},
	"breakfast":  {"breakfast", "fruehstueck", "fruhstuck", "frühstück"},
	"restaurant": {"restaurant", "dinner", "essen"},
	"pool":       {"pool"},
	"spa":        {"spa", "wellness"},
	"ac":         {"air conditioning", "klimaanlage"},
	"pets":       {"pet", "haustier", "dog-friendly"},
	"wheelchair": {"wheelchair", "barrierefrei"},
}

func inferAmenities(detail *placeDetail) types.HotelAmenities {
	var parts []string
	if detail != nil {
		if detail.EditorialSummary != nil {
			parts = append(parts, detail.EditorialSummary.Overview)
		}
		for _, r := range detail.Reviews {
			parts = append(parts, r.Text)
		}
	}
	blob := strings.ToLower(strings.Join(parts, " "))

	containsAny := func(key string) bool {
		for _, needle := range amenityKeywords[key] {
			if strings.Contains(blob, needle) {
				return true
			}
		}
		return false
	}

	return types.HotelAmenities{
		Wifi:                 containsAny("wifi"),
		Parking:              containsAny("parking"),
		Breakfast:            containsAny("breakfast"),
		Restaurant:           containsAny("restaurant"),
		Pool:                 containsAny("pool"),
		Spa:                  containsAny("spa"),
		AirConditioning:      containsAny("ac"),
		PetsAllowed:          containsAny("pets"),
		WheelchairAccessible: containsAny("wheelchair"),
	}
}

func (c *Client) bookingURL(name string, lat, lng float64, checkIn, checkOut string) string {
	params := url.Values{}
	params.Set("ss", name)
	params.Set("checkin", checkIn)
	params.Set("checkout", checkOut)
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("radius", "1")
	if id := strings.TrimSpace(c.BookingAffiliateID); id != "" {
		params.Set("aid", id)
	}
	return "https://www.booking.com/searchresults.html?" + params.Encode()
}

// haversineKm returns the great-circle distance between two points.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(v float64) float64 { return v * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
