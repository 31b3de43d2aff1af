package repositories

import (
	"context"
	"sync"
	"time"
)

type memoryCounter struct {
	count   int64
	resetAt time.Time
}

// CounterStoreMemory implements ports.CounterStore in process memory.
// Used by tests and single-node development; the injectable clock makes
// window expiry deterministic.
type CounterStoreMemory struct {
	mu       sync.Mutex
	counters map[string]*memoryCounter
	now      func() time.Time
}

func NewCounterStoreMemory(now func() time.Time) *CounterStoreMemory {
	if now == nil {
		now = time.Now
	}
	return &CounterStoreMemory{counters: make(map[string]*memoryCounter), now: now}
}

func (s *CounterStoreMemory) IncrementAndGet(_ context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	c, ok := s.counters[key]
	if !ok || !c.resetAt.After(now) {
		c = &memoryCounter{count: delta, resetAt: now.Add(ttl)}
		s.counters[key] = c
		return c.count, nil
	}
	c.count += delta
	return c.count, nil
}

func (s *CounterStoreMemory) Get(_ context.Context, key string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[key]
	if !ok || !c.resetAt.After(s.now()) {
		return 0, false, nil
	}
	return c.count, true, nil
}

func (s *CounterStoreMemory) TimeToReset(_ context.Context, key string) (time.Duration, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[key]
	if !ok {
		return 0, false, nil
	}
	remaining := c.resetAt.Sub(s.now())
	if remaining <= 0 {
		return 0, false, nil
	}
	return remaining, true, nil
}
