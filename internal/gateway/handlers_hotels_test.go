// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jerdnaandrej777/mapab-app/internal/hotels"
	"github.com/jerdnaandrej777/mapab-app/internal/quota"
	"github.com/jerdnaandrej777/mapab-app/pkg/types"
)

const hotelSearchBody = `{"lat":47.1,"lng":11.0,"radiusKm":10}`

func TestHotelSearchNotConfigured(t *testing.T) {
	w := doJSON(t, testServer(&mockAI{}), "POST", "/api/hotels/search", hotelSearchBody)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if !strings.Contains(w.Body.String(), "GOOGLE_PLACES_NOT_CONFIGURED") {
		t.Errorf("body = %s", w.Body)
	}
}

func TestHotelSearchUsesOwnLimit(t *testing.T) {
	w := doJSON(t, testServer(&mockAI{}), "POST", "/api/hotels/search", hotelSearchBody)

	if got := w.Header().Get("X-RateLimit-Limit"); got != "300" {
		t.Errorf("X-RateLimit-Limit = %q, want 300 (hotel search default)", got)
	}
}

func TestHotelSearchInvalidBody(t *testing.T) {
	cfg := types.Config{
		Quota:  types.QuotaConfig{Limit: 100, Window: time.Hour},
		Hotels: types.HotelsConfig{APIKey: "test-key"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewServer(cfg, quota.NewGovernor(nil, logger), &mockAI{}, hotels.NewClient(cfg.Hotels), nil, logger)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "###"},
		{"lat out of range", `{"lat":91,"lng":11.0}`},
		{"radius too large", `{"lat":47.1,"lng":11.0,"radiusKm":25}`},
		{"bad check-in date", `{"lat":47.1,"lng":11.0,"checkInDate":"10.09.2026"}`},
		{"limit too large", `{"lat":47.1,"lng":11.0,"limit":50}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s, "POST", "/api/hotels/search", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%s)", w.Code, w.Body)
			}
		})
	}
}
