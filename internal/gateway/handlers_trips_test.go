// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jerdnaandrej777/mapab-app/internal/quota"
	"github.com/jerdnaandrej777/mapab-app/internal/store"
	"github.com/jerdnaandrej777/mapab-app/pkg/types"
)

func testServerWithStore(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(types.StorageConfig{Path: filepath.Join(t.TempDir(), "mapab.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := types.Config{
		Quota: types.QuotaConfig{Limit: 100, Window: time.Hour},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(cfg, quota.NewGovernor(nil, logger), &mockAI{}, nil, st, logger)
}

func doAs(t *testing.T, s *Server, userID, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		r.Header.Set("X-User-Id", userID)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	return w
}

const tripBody = `{
	"name": "Wochenende Gardasee",
	"startLat": 46.1, "startLng": 11.1,
	"endLat": 45.6, "endLng": 10.7,
	"stops": [
		{"poiId": "p1", "name": "Burg Arco", "latitude": 45.9, "longitude": 10.88, "position": 0}
	]
}`

func TestTripsRequireUser(t *testing.T) {
	s := testServerWithStore(t)
	w := doAs(t, s, "", "GET", "/api/v1/trips", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "UNAUTHORIZED") {
		t.Errorf("body = %s", w.Body)
	}
}

func TestTripLifecycle(t *testing.T) {
	s := testServerWithStore(t)

	w := doAs(t, s, "u1", "POST", "/api/v1/trips", tripBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d (%s)", w.Code, w.Body)
	}
	var created struct {
		Trip types.Trip `json:"trip"`
	}
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.Trip.ID == "" || len(created.Trip.Stops) != 1 {
		t.Fatalf("unexpected created trip: %+v", created.Trip)
	}
	id := created.Trip.ID

	w = doAs(t, s, "u1", "GET", "/api/v1/trips/"+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: status = %d", w.Code)
	}

	// Another user must not see the trip.
	w = doAs(t, s, "u2", "GET", "/api/v1/trips/"+id, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-user get: status = %d, want 404", w.Code)
	}

	w = doAs(t, s, "u1", "PUT", "/api/v1/trips/"+id, `{"name":"Umbenannt","startLat":46.1,"startLng":11.1,"endLat":45.6,"endLng":10.7,"stops":[]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: status = %d (%s)", w.Code, w.Body)
	}
	var updated struct {
		Trip types.Trip `json:"trip"`
	}
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Trip.Name != "Umbenannt" || len(updated.Trip.Stops) != 0 {
		t.Errorf("unexpected updated trip: %+v", updated.Trip)
	}

	w = doAs(t, s, "u1", "POST", "/api/v1/trips/"+id+"/complete", "")
	if w.Code != http.StatusOK {
		t.Fatalf("complete: status = %d", w.Code)
	}
	var completed struct {
		Trip types.Trip `json:"trip"`
	}
	json.Unmarshal(w.Body.Bytes(), &completed)
	if completed.Trip.CompletedAt == nil {
		t.Error("completedAt not set")
	}

	w = doAs(t, s, "u1", "DELETE", "/api/v1/trips/"+id, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", w.Code)
	}
	w = doAs(t, s, "u1", "GET", "/api/v1/trips/"+id, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status = %d, want 404", w.Code)
	}
}

func TestListTripsScopedToUser(t *testing.T) {
	s := testServerWithStore(t)
	doAs(t, s, "u1", "POST", "/api/v1/trips", tripBody)
	doAs(t, s, "u2", "POST", "/api/v1/trips", tripBody)

	w := doAs(t, s, "u1", "GET", "/api/v1/trips", "")
	var resp struct {
		Trips []types.Trip `json:"trips"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Trips) != 1 {
		t.Fatalf("got %d trips, want 1", len(resp.Trips))
	}
}

func TestCreateTripRejectsInvalid(t *testing.T) {
	s := testServerWithStore(t)
	w := doAs(t, s, "u1", "POST", "/api/v1/trips", `{"name":""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "VALIDATION_ERROR") {
		t.Errorf("body = %s", w.Body)
	}
}

func TestUpdateMissingTrip(t *testing.T) {
	s := testServerWithStore(t)
	w := doAs(t, s, "u1", "PUT", "/api/v1/trips/nope", `{"name":"X","stops":[]}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestFavorites(t *testing.T) {
	s := testServerWithStore(t)
	body := `{"poiId":"p9","name":"Rathaus","latitude":47.0,"longitude":11.0,"categoryId":"landmark"}`

	w := doAs(t, s, "u1", "POST", "/api/v1/favorites/pois", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("add: status = %d (%s)", w.Code, w.Body)
	}
	// Re-adding the same POI is an upsert, not an error.
	if w = doAs(t, s, "u1", "POST", "/api/v1/favorites/pois", body); w.Code != http.StatusCreated {
		t.Fatalf("re-add: status = %d", w.Code)
	}

	w = doAs(t, s, "u1", "GET", "/api/v1/favorites/pois", "")
	var resp struct {
		Favorites []types.FavoritePOI `json:"favorites"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Favorites) != 1 || resp.Favorites[0].PoiID != "p9" {
		t.Fatalf("unexpected favorites: %+v", resp.Favorites)
	}

	w = doAs(t, s, "u1", "DELETE", "/api/v1/favorites/pois/p9", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("remove: status = %d", w.Code)
	}
	w = doAs(t, s, "u1", "GET", "/api/v1/favorites/pois", "")
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Favorites) != 0 {
		t.Fatalf("favorites not empty after remove: %+v", resp.Favorites)
	}
}
