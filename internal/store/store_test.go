// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jerdnaandrej777/mapab-app/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StorageConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTrip(userID string) types.Trip {
	return types.Trip{
		UserID:   userID,
		Name:     "Wochenendtrip",
		StartLat: 48.1, StartLng: 11.6, StartAddress: "München",
		EndLat: 47.8, EndLng: 13.0, EndAddress: "Salzburg",
		DistanceKm:      145.5,
		DurationMinutes: 110,
		Stops: []types.TripStop{
			{PoiID: "p1", Name: "Chiemsee", Latitude: 47.9, Longitude: 12.4, CategoryID: "lake"},
			{PoiID: "p2", Name: "Herrenchiemsee", Latitude: 47.86, Longitude: 12.4},
		},
	}
}

func TestCreateAndGetTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateTrip(ctx, sampleTrip("u1"))
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("created trip has no id")
	}

	got, err := s.GetTrip(ctx, "u1", created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Wochenendtrip" || len(got.Stops) != 2 {
		t.Errorf("round trip lost data: %+v", got)
	}
	if got.Stops[0].PoiID != "p1" || got.Stops[1].PoiID != "p2" {
		t.Errorf("stop order not preserved: %+v", got.Stops)
	}
	if got.CompletedAt != nil {
		t.Error("new trip should not be completed")
	}
}

func TestGetTripScopedToUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, _ := s.CreateTrip(ctx, sampleTrip("u1"))

	_, err := s.GetTrip(ctx, "u2", created.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("another user's trip must look missing, got %v", err)
	}
}

func TestListTrips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.CreateTrip(ctx, sampleTrip("u1"))
	s.CreateTrip(ctx, sampleTrip("u1"))
	s.CreateTrip(ctx, sampleTrip("u2"))

	trips, err := s.ListTrips(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(trips) != 2 {
		t.Errorf("got %d trips, want 2", len(trips))
	}
	for _, trip := range trips {
		if len(trip.Stops) != 2 {
			t.Errorf("trip %s missing stops", trip.ID)
		}
	}
}

func TestUpdateTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, _ := s.CreateTrip(ctx, sampleTrip("u1"))
	created.Name = "Umbenannt"
	created.Stops = created.Stops[:1]

	updated, err := s.UpdateTrip(ctx, created)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Umbenannt" || len(updated.Stops) != 1 {
		t.Errorf("update not applied: %+v", updated)
	}
}

func TestUpdateTripNotFound(t *testing.T) {
	s := newTestStore(t)
	trip := sampleTrip("u1")
	trip.ID = "missing"
	_, err := s.UpdateTrip(context.Background(), trip)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, _ := s.CreateTrip(ctx, sampleTrip("u1"))
	if err := s.DeleteTrip(ctx, "u1", created.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetTrip(ctx, "u1", created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("trip still present after delete: %v", err)
	}
	if err := s.DeleteTrip(ctx, "u1", created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete should report ErrNotFound, got %v", err)
	}
}

func TestCompleteTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, _ := s.CreateTrip(ctx, sampleTrip("u1"))
	completed, err := s.CompleteTrip(ctx, "u1", created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if completed.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}
}

func TestFavorites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	poi := types.FavoritePOI{PoiID: "p9", Name: "Neuschwanstein", Latitude: 47.56, Longitude: 10.75, CategoryID: "castle"}
	if err := s.AddFavorite(ctx, "u1", poi); err != nil {
		t.Fatal(err)
	}

	// Adding again updates rather than duplicating.
	poi.Name = "Schloss Neuschwanstein"
	if err := s.AddFavorite(ctx, "u1", poi); err != nil {
		t.Fatal(err)
	}

	favorites, err := s.ListFavorites(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(favorites) != 1 {
		t.Fatalf("got %d favorites, want 1", len(favorites))
	}
	if favorites[0].Name != "Schloss Neuschwanstein" {
		t.Errorf("upsert did not update name: %q", favorites[0].Name)
	}

	if err := s.RemoveFavorite(ctx, "u1", "p9"); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveFavorite(ctx, "u1", "p9"); !errors.Is(err, ErrNotFound) {
		t.Errorf("removing a missing favorite should report ErrNotFound, got %v", err)
	}
}
