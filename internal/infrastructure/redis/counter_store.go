package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// CounterStore implements ports.CounterStore with Redis. Atomicity of
// IncrementAndGet comes from the single INCRBY command; the engine adds
// no locks of its own.
type CounterStore struct {
	r redis.Cmdable
}

func NewCounterStore(r redis.Cmdable) *CounterStore {
	return &CounterStore{r: r}
}

// IncrementAndGet atomically adds delta to the counter for key. When
// this call created the key, the ttl is applied so the counter expires
// with its window; later increments do not extend it.
func (s *CounterStore) IncrementAndGet(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	total, err := s.r.IncrBy(ctx, key, delta).Result()
	if err != nil {
		return 0, err
	}
	if total == delta {
		// First increment of the window.
		if err := s.r.Expire(ctx, key, ttl).Err(); err != nil {
			return total, err
		}
	}
	return total, nil
}

// Get returns the counter value without mutating it.
func (s *CounterStore) Get(ctx context.Context, key string) (int64, bool, error) {
	val, err := s.r.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

// TimeToReset reports the remaining TTL of the counter key.
func (s *CounterStore) TimeToReset(ctx context.Context, key string) (time.Duration, bool, error) {
	ttl, err := s.r.PTTL(ctx, key).Result()
	if err != nil {
		return 0, false, err
	}
	if ttl < 0 {
		// -2: no key, -1: no expiry set.
		return 0, false, nil
	}
	return ttl, true, nil
}
