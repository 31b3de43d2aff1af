package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/quota"
	"github.com/CodeFleck/sensorvision-sub007/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// QuotaEngineService implements ports.QuotaEngine on top of a
// CounterStore. It holds no in-process locks and caches no counts:
// every check re-reads the store, which is the single source of truth.
type QuotaEngineService struct {
	store         ports.CounterStore
	limitRepo     ports.LimitRepository
	entityCounts  ports.EntityCountRepository
	defaults      quota.LimitSet
	keyPrefix     string
	warnThreshold float64
	failurePolicy quota.FailurePolicy
	now           func() time.Time
	logger        *logrus.Logger
}

// QuotaEngineConfig groups configuration parameters for the quota engine.
type QuotaEngineConfig struct {
	// Defaults is the global limit set applied when a tenant has no override.
	Defaults quota.LimitSet
	// KeyPrefix namespaces counter keys in the store.
	KeyPrefix string
	// WarnThreshold is the advisory-warning fraction of a window's limit.
	WarnThreshold float64
	// FailurePolicy governs windowed checks when the store is unreachable.
	// Ceiling checks always propagate failures regardless of this setting.
	FailurePolicy quota.FailurePolicy
	// Now is the clock; tests inject a fake one.
	Now func() time.Time
}

func NewQuotaEngine(store ports.CounterStore, limitRepo ports.LimitRepository, entityCounts ports.EntityCountRepository, cfg *QuotaEngineConfig, logger *logrus.Logger) *QuotaEngineService {
	// Apply defaults
	kp := "quota"
	wt := 0.9
	fp := quota.FailOpen
	now := time.Now
	defaults := quota.LimitSet{}
	if cfg != nil {
		if cfg.KeyPrefix != "" {
			kp = cfg.KeyPrefix
		}
		if cfg.WarnThreshold > 0 {
			wt = cfg.WarnThreshold
		}
		if cfg.FailurePolicy != "" {
			fp = cfg.FailurePolicy
		}
		if cfg.Now != nil {
			now = cfg.Now
		}
		if cfg.Defaults != nil {
			defaults = cfg.Defaults
		}
	}
	return &QuotaEngineService{
		store:         store,
		limitRepo:     limitRepo,
		entityCounts:  entityCounts,
		defaults:      defaults,
		keyPrefix:     kp,
		warnThreshold: wt,
		failurePolicy: fp,
		now:           now,
		logger:        logger,
	}
}

// counterKey composes the store key for one counter. The format is
// stable and collision-free across tenants, resources and windows.
func (s *QuotaEngineService) counterKey(tenantID uuid.UUID, resource quota.ResourceKind, window quota.WindowKind) string {
	return strings.Join([]string{s.keyPrefix, tenantID.String(), string(resource), string(window)}, ":")
}

// resolveLimits merges tenant overrides onto the global defaults. A
// failing override lookup falls back to defaults rather than blocking
// the check.
func (s *QuotaEngineService) resolveLimits(ctx context.Context, tenantID uuid.UUID) quota.LimitSet {
	if s.limitRepo == nil {
		return s.defaults
	}
	overrides, err := s.limitRepo.GetOverrides(ctx, tenantID)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"tenant_id": tenantID}).WithError(err).Warn("quota: failed to load limit overrides, using defaults")
		}
		return s.defaults
	}
	if len(overrides) == 0 {
		return s.defaults
	}
	return s.defaults.Merge(overrides)
}

// CheckAndConsume increments every window the resource tracks, then
// gates the resulting totals. The order is deliberate: counting first
// closes the race where two concurrent callers both pass a check-first
// gate. A denied call keeps its consumed amount.
func (s *QuotaEngineService) CheckAndConsume(ctx context.Context, tenantID uuid.UUID, resource quota.ResourceKind, amount int64) (*quota.Decision, error) {
	if amount < 1 {
		return nil, fmt.Errorf("quota: amount must be >= 1, got %d", amount)
	}
	windows := resource.Windows()
	if len(windows) == 0 {
		return nil, fmt.Errorf("quota: resource %q is not a windowed kind", resource)
	}

	limits := s.resolveLimits(ctx, tenantID)

	type windowTotal struct {
		window quota.WindowKind
		total  int64
		limit  int64
		capped bool
	}
	totals := make([]windowTotal, 0, len(windows))

	// Count first: apply the increment to every window before gating.
	for _, w := range windows {
		key := s.counterKey(tenantID, resource, w)
		total, err := s.store.IncrementAndGet(ctx, key, amount, w.Duration())
		if err != nil {
			quotaStoreFailuresTotal.Inc()
			if s.failurePolicy == quota.FailClosed {
				return nil, fmt.Errorf("%w: increment %s: %v", quota.ErrStoreUnavailable, key, err)
			}
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"tenant_id": tenantID, "resource": resource, "window": w}).WithError(err).Error("quota: counter store unreachable, allowing (fail-open)")
			}
			quotaChecksTotal.WithLabelValues(string(resource), "allowed").Inc()
			return &quota.Decision{Allowed: true, Resource: resource}, nil
		}
		limit, ok := limits.Limit(resource, w)
		totals = append(totals, windowTotal{window: w, total: total, limit: limit, capped: ok})
	}

	// Gate: compare each resulting total against its limit.
	decision := &quota.Decision{Allowed: true, Resource: resource, Remaining: -1}
	var worst float64 = -1
	for _, wt := range totals {
		if !wt.capped {
			continue
		}
		if wt.total > wt.limit {
			decision.Allowed = false
			decision.Window = wt.window
			decision.Count = wt.total
			decision.Limit = wt.limit
			decision.Remaining = 0
			break
		}
		if float64(wt.total) > float64(wt.limit)*s.warnThreshold {
			decision.Warning = true
		}
		remaining := wt.limit - wt.total
		if decision.Remaining < 0 || remaining < decision.Remaining {
			decision.Remaining = remaining
		}
		if util := float64(wt.total) / float64(wt.limit); util > worst {
			worst = util
			decision.Window = wt.window
			decision.Count = wt.total
			decision.Limit = wt.limit
		}
	}
	if decision.Remaining < 0 {
		decision.Remaining = 0
	}
	if decision.Window != "" {
		if ttl, ok, err := s.store.TimeToReset(ctx, s.counterKey(tenantID, resource, decision.Window)); err == nil && ok {
			decision.ResetAt = s.now().Add(ttl)
		}
	}

	if !decision.Allowed {
		quotaChecksTotal.WithLabelValues(string(resource), "denied").Inc()
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"tenant_id": tenantID, "resource": resource, "window": decision.Window, "count": decision.Count, "limit": decision.Limit}).Warn("quota: limit exceeded")
		}
		return decision, nil
	}

	quotaChecksTotal.WithLabelValues(string(resource), "allowed").Inc()
	if decision.Warning {
		quotaWarningsTotal.WithLabelValues(string(resource)).Inc()
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"tenant_id": tenantID, "resource": resource, "window": decision.Window, "count": decision.Count, "limit": decision.Limit}).Warn("quota: approaching limit")
		}
	}
	return decision, nil
}

// CheckCeiling compares the authoritative entity count against its
// static ceiling. Read-only and fail-closed: entity counts come from
// the primary datastore, so unavailability propagates to the caller.
func (s *QuotaEngineService) CheckCeiling(ctx context.Context, tenantID uuid.UUID, resource quota.ResourceKind) (*quota.Decision, error) {
	if !resource.Cumulative() {
		return nil, fmt.Errorf("quota: resource %q is not a cumulative kind", resource)
	}
	count, err := s.entityCounts.Count(ctx, tenantID, resource)
	if err != nil {
		quotaStoreFailuresTotal.Inc()
		return nil, fmt.Errorf("quota: count %s for tenant %s: %w", resource, tenantID, err)
	}
	limits := s.resolveLimits(ctx, tenantID)
	limit, ok := limits.Limit(resource, "")
	if !ok {
		// No ceiling configured: unlimited.
		return &quota.Decision{Allowed: true, Resource: resource, Count: count}, nil
	}
	if count >= limit {
		quotaChecksTotal.WithLabelValues(string(resource), "denied").Inc()
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"tenant_id": tenantID, "resource": resource, "count": count, "limit": limit}).Warn("quota: entity ceiling reached")
		}
		return &quota.Decision{Allowed: false, Resource: resource, Count: count, Limit: limit}, nil
	}
	quotaChecksTotal.WithLabelValues(string(resource), "allowed").Inc()
	return &quota.Decision{Allowed: true, Resource: resource, Count: count, Limit: limit, Remaining: limit - count}, nil
}

// GetStatus assembles the usage snapshot for a tenant. Entity count
// failures propagate; counter store failures degrade the affected
// window to count 0 with a log record.
func (s *QuotaEngineService) GetStatus(ctx context.Context, tenantID uuid.UUID) (*quota.Status, error) {
	limits := s.resolveLimits(ctx, tenantID)
	now := s.now()
	status := &quota.Status{TenantID: tenantID, GeneratedAt: now}

	for _, r := range quota.CumulativeResources() {
		count, err := s.entityCounts.Count(ctx, tenantID, r)
		if err != nil {
			return nil, fmt.Errorf("quota: count %s for tenant %s: %w", r, tenantID, err)
		}
		limit, _ := limits.Limit(r, "")
		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		status.Entities = append(status.Entities, quota.EntityUsage{Resource: r, Count: count, Limit: limit, Remaining: remaining})
	}

	for _, r := range quota.WindowedResources() {
		usage := quota.RateUsage{Resource: r}
		for _, w := range r.Windows() {
			key := s.counterKey(tenantID, r, w)
			count, ok, err := s.store.Get(ctx, key)
			if err != nil {
				quotaStoreFailuresTotal.Inc()
				if s.logger != nil {
					s.logger.WithFields(logrus.Fields{"tenant_id": tenantID, "resource": r, "window": w}).WithError(err).Error("quota: failed to read counter for status, reporting 0")
				}
				count, ok = 0, false
			}
			limit, _ := limits.Limit(r, w)
			remaining := limit - count
			if remaining < 0 {
				remaining = 0
			}
			wu := quota.WindowUsage{Window: w, Limit: limit, Count: count, Remaining: remaining}
			if ok {
				if ttl, present, err := s.store.TimeToReset(ctx, key); err == nil && present {
					wu.ResetAt = now.Add(ttl)
				}
			}
			usage.Windows = append(usage.Windows, wu)
		}
		status.Rates = append(status.Rates, usage)
	}
	return status, nil
}

// UpdateLimits validates and applies a partial limit update. All
// updates are validated before any mutation; a single invalid value
// rejects the whole request and leaves the limit set unchanged.
func (s *QuotaEngineService) UpdateLimits(ctx context.Context, tenantID uuid.UUID, updates []quota.LimitUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	for _, u := range updates {
		if !u.Resource.Valid() {
			return &quota.InvalidLimitError{Resource: u.Resource, Window: u.Window, Value: u.Value, Reason: "unknown resource kind"}
		}
		if u.Value < 1 {
			return &quota.InvalidLimitError{Resource: u.Resource, Window: u.Window, Value: u.Value, Reason: "limit must be positive"}
		}
		if u.Resource.Cumulative() {
			if u.Window != "" {
				return &quota.InvalidLimitError{Resource: u.Resource, Window: u.Window, Value: u.Value, Reason: "cumulative resources take no window"}
			}
			continue
		}
		valid := false
		for _, w := range u.Resource.Windows() {
			if w == u.Window {
				valid = true
				break
			}
		}
		if !valid {
			return &quota.InvalidLimitError{Resource: u.Resource, Window: u.Window, Value: u.Value, Reason: "window not tracked for resource"}
		}
	}
	if err := s.limitRepo.Upsert(ctx, tenantID, updates); err != nil {
		return fmt.Errorf("quota: update limits for tenant %s: %w", tenantID, err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"tenant_id": tenantID, "fields": len(updates)}).Info("quota: limits updated")
	}
	return nil
}
