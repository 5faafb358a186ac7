// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quota enforces per-client request quotas with fixed windows.
// Counters live in a shared store so limits hold across gateway instances;
// when the store is unreachable the governor degrades to local in-process
// counting rather than failing the request.
package quota

import (
	"context"
	"fmt"
	"time"
)

// CounterStore increments a named counter and reports the new value. An
// implementation must create missing counters at zero and expire them ttl
// after creation. Increment must be atomic under concurrent callers.
type CounterStore interface {
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// windowKey builds the storage key for one client in one window. The window
// start is part of the key, so an expired window's counter is simply never
// touched again.
func windowKey(clientKey string, windowStart time.Time) string {
	return fmt.Sprintf("quota:%s:%d", clientKey, windowStart.UnixMilli())
}
