// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes surfaced to callers.
const (
	codeValidation       = "VALIDATION_ERROR"
	codeRateLimited      = "RATE_LIMIT_EXCEEDED"
	codeUnauthorized     = "UNAUTHORIZED"
	codeNotFound         = "NOT_FOUND"
	codeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	codeMissingLocation  = "MISSING_LOCATION"
	codePlacesNotConfig  = "GOOGLE_PLACES_NOT_CONFIGURED"
	codeHotelSearch      = "HOTEL_SEARCH_FAILED"
	codeAINoResponse     = "AI_NO_RESPONSE"
	codeAIConfig         = "AI_CONFIG_ERROR"
	codeAIUnavailable    = "AI_UNAVAILABLE"
	codeInternal         = "INTERNAL_ERROR"
)

// errorBody is the caller-facing error envelope. The message and code are
// duplicated at the top level for older clients.
type errorBody struct {
	Error   errorDetail `json:"error"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	TraceID string      `json:"traceId"`
	Details string      `json:"details,omitempty"`
}

type errorDetail struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, traceID, code, message, details string) {
	writeJSON(w, status, errorBody{
		Error:   errorDetail{Message: message, Code: code},
		Message: message,
		Code:    code,
		TraceID: traceID,
		Details: details,
	})
}

// newTraceID returns a random correlation id in UUID form. It exists only
// for observability; nothing routes or validates on it.
func newTraceID() string {
	var b [16]byte
	rand.Read(b[:])
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
