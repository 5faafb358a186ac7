// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ServerConfig holds HTTP listener settings for the gateway.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// ReadTimeout bounds reading an incoming request body.
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout bounds writing a response.
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
}

// QuotaConfig holds settings for per-client request quotas.
type QuotaConfig struct {
	// RedisURL is the shared counter store address (e.g. "redis://localhost:6379/0").
	// Empty means local in-process counting only.
	RedisURL string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`

	// Limit is the default number of requests allowed per client per window.
	Limit int `json:"limit" yaml:"limit"`

	// SuggestionsLimit is the stricter limit applied to the structured
	// suggestions endpoint. Zero falls back to Limit.
	SuggestionsLimit int `json:"suggestions_limit" yaml:"suggestions_limit"`

	// HotelsLimit is the looser limit applied to hotel search (default 300).
	HotelsLimit int `json:"hotels_limit" yaml:"hotels_limit"`

	// Window is the fixed quota window length (default 24h).
	Window time.Duration `json:"window" yaml:"window"`
}

// AIConfig holds shared settings for calls to the completion endpoint.
type AIConfig struct {
	// Model is the completion model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the completion endpoint.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout bounds a single completion attempt.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the number of retry attempts for retryable failures (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// InitialBackoff is the base delay before the first retry; each further
	// retry doubles it.
	InitialBackoff time.Duration `json:"initial_backoff" yaml:"initial_backoff"`

	// UpstreamRPS paces outbound completion calls across all requests.
	// Zero disables pacing.
	UpstreamRPS float64 `json:"upstream_rps" yaml:"upstream_rps"`

	// UpstreamBurst is the pacing burst size (default 1 when pacing is on).
	UpstreamBurst int `json:"upstream_burst" yaml:"upstream_burst"`
}

// HotelsConfig holds settings for the hotel search proxy.
type HotelsConfig struct {
	// APIKey authenticates against the Google Places API. Empty disables
	// the hotel search endpoint.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BookingAffiliateID is appended to generated booking links when set.
	BookingAffiliateID string `json:"booking_affiliate_id,omitempty" yaml:"booking_affiliate_id,omitempty"`
}

// StorageConfig holds settings for the trip/favorites database.
type StorageConfig struct {
	// Path is the SQLite database file (default "data/mapab.db").
	Path string `json:"path" yaml:"path"`
}

// Config aggregates all gateway settings.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Quota   QuotaConfig   `json:"quota" yaml:"quota"`
	AI      AIConfig      `json:"ai" yaml:"ai"`
	Hotels  HotelsConfig  `json:"hotels" yaml:"hotels"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
}
