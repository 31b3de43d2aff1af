package ports

import (
	"context"
	"time"
)

// CounterStore provides low-level atomic counter operations for quota
// enforcement. It abstracts storage (Redis, Postgres, memory) and MUST
// be safe for concurrent use: the quota engine holds no locks of its
// own, so correctness under concurrent checks for the same key rests
// entirely on IncrementAndGet being atomic.
type CounterStore interface {
	// IncrementAndGet atomically adds delta (>=1) to the counter for key,
	// creating it at 0 if absent or expired, and returns the new total.
	// The ttl is applied only when this call creates the counter; later
	// increments within the window must not extend it.
	IncrementAndGet(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)

	// Get returns the current count without mutating it. ok=false means
	// no activity this window and is treated as count 0.
	Get(ctx context.Context, key string) (count int64, ok bool, err error)

	// TimeToReset returns the remaining time until the counter for key
	// expires. ok=false when the counter is absent or expired.
	TimeToReset(ctx context.Context, key string) (ttl time.Duration, ok bool, err error)
}
