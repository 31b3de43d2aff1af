package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/quota"
	"github.com/CodeFleck/sensorvision-sub007/internal/core/ports"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var sf singleflight.Group

// Utility helpers
func cacheSetSilently(c ports.Cache, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

func cacheGet[T any](c ports.Cache, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// CachingLimitRepository decorates a LimitRepository with cache-aside.
// Overrides are read on every quota check and change rarely; a short
// TTL keeps the hot path off the database, and Upsert invalidates
// eagerly so administrative updates take effect on the next check.
type CachingLimitRepository struct {
	inner ports.LimitRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingLimitRepository(inner ports.LimitRepository, cache ports.Cache, ttl time.Duration) ports.LimitRepository {
	return &CachingLimitRepository{inner: inner, cache: cache, ttl: ttl}
}

func limitOverridesKey(tenantID uuid.UUID) string {
	return "quota:limits:" + tenantID.String()
}

func (r *CachingLimitRepository) GetOverrides(ctx context.Context, tenantID uuid.UUID) (quota.LimitSet, error) {
	key := limitOverridesKey(tenantID)
	if v, ok := cacheGet[quota.LimitSet](r.cache, ctx, key); ok {
		return *v, nil
	}
	res, err, _ := sf.Do(key, func() (any, error) {
		if v, ok := cacheGet[quota.LimitSet](r.cache, ctx, key); ok {
			return *v, nil
		}
		overrides, err := r.inner.GetOverrides(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		cacheSetSilently(r.cache, ctx, key, overrides, r.ttl)
		return overrides, nil
	})
	if err != nil {
		return nil, err
	}
	overrides, ok := res.(quota.LimitSet)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight result")
	}
	return overrides, nil
}

func (r *CachingLimitRepository) Upsert(ctx context.Context, tenantID uuid.UUID, updates []quota.LimitUpdate) error {
	if err := r.inner.Upsert(ctx, tenantID, updates); err != nil {
		return err
	}
	if r.cache != nil {
		_ = r.cache.Delete(ctx, limitOverridesKey(tenantID))
	}
	return nil
}
