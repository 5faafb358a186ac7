// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quota

import (
	"context"
	"sync"
	"time"
)

// purgeThreshold caps how many counters accumulate before expired entries
// are swept on the next increment.
const purgeThreshold = 4096

// LocalStore is an in-process CounterStore. It backs the governor when the
// shared store is unreachable; counts are per instance only, so under a
// store outage the effective global limit becomes limit times the number of
// instances. That availability/accuracy trade-off is deliberate.
type LocalStore struct {
	mu       sync.Mutex
	counters map[string]*localCounter
	now      func() time.Time
}

type localCounter struct {
	count     int64
	expiresAt time.Time
}

// NewLocalStore returns an empty local counter store.
func NewLocalStore() *LocalStore {
	return &LocalStore{
		counters: make(map[string]*localCounter),
		now:      time.Now,
	}
}

// Increment implements CounterStore. It never fails and never blocks on I/O.
func (s *LocalStore) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.counters[key]
	if c == nil || !now.Before(c.expiresAt) {
		c = &localCounter{expiresAt: now.Add(ttl)}
		s.counters[key] = c
	}
	c.count++

	if len(s.counters) > purgeThreshold {
		s.purgeLocked(now)
	}
	return c.count, nil
}

func (s *LocalStore) purgeLocked(now time.Time) {
	for k, c := range s.counters {
		if !now.Before(c.expiresAt) {
			delete(s.counters, k)
		}
	}
}
