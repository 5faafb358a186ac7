// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// HotelSearchRequest is the body of POST /api/hotels/search.
type HotelSearchRequest struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	RadiusKm     float64 `json:"radiusKm,omitempty"`
	Limit        int     `json:"limit,omitempty"`
	CheckInDate  string  `json:"checkInDate,omitempty"`
	CheckOutDate string  `json:"checkOutDate,omitempty"`
	Language     string  `json:"language,omitempty"`
	DayIndex     int     `json:"dayIndex,omitempty"`
}

// HotelAmenities flags amenities inferred from place descriptions and
// review text. Absence of a flag means "not mentioned", not "not offered".
type HotelAmenities struct {
	Wifi                 bool `json:"wifi"`
	Parking              bool `json:"parking"`
	Breakfast            bool `json:"breakfast"`
	Restaurant           bool `json:"restaurant"`
	Pool                 bool `json:"pool"`
	Spa                  bool `json:"spa"`
	AirConditioning      bool `json:"airConditioning"`
	PetsAllowed          bool `json:"petsAllowed"`
	WheelchairAccessible bool `json:"wheelchairAccessible"`
}

// Data-quality labels on hotel results.
const (
	HotelQualityVerified   = "verified"
	HotelQualityLimited    = "limited"
	HotelQualityFewReviews = "few_or_no_reviews"
)

// Hotel is one lodging result returned by hotel search.
type Hotel struct {
	ID          string         `json:"id"`
	PlaceID     string         `json:"placeId"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Lat         float64        `json:"lat"`
	Lng         float64        `json:"lng"`
	DistanceKm  float64        `json:"distanceKm"`
	Rating      *float64       `json:"rating,omitempty"`
	ReviewCount *int           `json:"reviewCount,omitempty"`
	Highlights  []string       `json:"highlights"`
	Amenities   HotelAmenities `json:"amenities"`
	Address     string         `json:"address,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	Website     string         `json:"website,omitempty"`
	BookingURL  string         `json:"bookingUrl,omitempty"`
	Source      string         `json:"source"`
	DataQuality string         `json:"dataQuality"`
}
