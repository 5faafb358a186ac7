// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quota

import (
	"context"
	"log/slog"
	"time"
)

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed   bool
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// Governor computes fixed-window admission decisions. It increments the
// shared store first and silently fails over to the local store when the
// shared store errors; a store outage must never deny or delay a caller.
type Governor struct {
	shared CounterStore // may be nil
	local  CounterStore
	logger *slog.Logger
	now    func() time.Time
}

// NewGovernor builds a Governor. shared may be nil, in which case all
// counting is local.
func NewGovernor(shared CounterStore, logger *slog.Logger) *Governor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Governor{
		shared: shared,
		local:  NewLocalStore(),
		logger: logger,
		now:    time.Now,
	}
}

// Admit records one attempt for clientKey in the current window and decides
// whether it is allowed. The increment happens before the limit check, so a
// denied attempt still consumes quota; retry storms burn their own budget.
func (g *Governor) Admit(ctx context.Context, clientKey string, limit int, window time.Duration) Decision {
	now := g.now()
	windowStart := now.Truncate(window)
	resetAt := windowStart.Add(window)
	key := windowKey(clientKey, windowStart)

	count, err := g.increment(ctx, key, window)
	if err != nil {
		// Shared store down and local store failed too; should not happen
		// (LocalStore never errors), but deny nothing on our own account.
		g.logger.Error("quota count unavailable", "key", clientKey, "error", err)
		return Decision{Allowed: true, Remaining: limit, Limit: limit, ResetAt: resetAt}
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= int64(limit),
		Remaining: remaining,
		Limit:     limit,
		ResetAt:   resetAt,
	}
}

func (g *Governor) increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if g.shared != nil {
		count, err := g.shared.Increment(ctx, key, ttl)
		if err == nil {
			return count, nil
		}
		g.logger.Warn("quota store unreachable, counting locally", "error", err)
	}
	return g.local.Increment(ctx, key, ttl)
}
