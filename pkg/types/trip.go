// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// TripStop is one saved stop along a trip route.
type TripStop struct {
	PoiID      string  `json:"poiId"`
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	CategoryID string  `json:"categoryId,omitempty"`
	Position   int     `json:"position"`
}

// Trip is a saved route with its stops.
type Trip struct {
	ID              string     `json:"id"`
	UserID          string     `json:"-"`
	Name            string     `json:"name"`
	StartLat        float64    `json:"startLat"`
	StartLng        float64    `json:"startLng"`
	StartAddress    string     `json:"startAddress,omitempty"`
	EndLat          float64    `json:"endLat"`
	EndLng          float64    `json:"endLng"`
	EndAddress      string     `json:"endAddress,omitempty"`
	DistanceKm      float64    `json:"distanceKm,omitempty"`
	DurationMinutes int        `json:"durationMinutes,omitempty"`
	RouteGeometry   string     `json:"routeGeometry,omitempty"`
	IsFavorite      bool       `json:"isFavorite"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Stops           []TripStop `json:"stops"`
}

// FavoritePOI is a POI the user bookmarked independent of any trip.
type FavoritePOI struct {
	PoiID      string    `json:"poiId"`
	Name       string    `json:"name"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CategoryID string    `json:"categoryId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
