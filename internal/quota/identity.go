// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quota

import (
	"net/http"
	"strings"
)

// anonymousKey buckets every caller the gateway cannot identify.
const anonymousKey = "anonymous"

// ClientKey derives the quota bucket for a request. Precedence: the
// authenticated user id, then the first forwarded client address, then the
// shared anonymous bucket. The key is only ever used as a counter lookup;
// it is never persisted beyond the counter's ttl.
func ClientKey(r *http.Request) string {
	if userID := strings.TrimSpace(r.Header.Get("X-User-Id")); userID != "" {
		return "user:" + userID
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if ip != "" {
			return "ip:" + ip
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-Ip")); realIP != "" {
		return "ip:" + realIP
	}

	return anonymousKey
}
