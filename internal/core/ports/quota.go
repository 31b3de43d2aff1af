package ports

import (
	"context"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/quota"
	"github.com/google/uuid"
)

// LimitRepository stores per-tenant quota limit overrides. Absence of an
// override means the global default applies.
type LimitRepository interface {
	// GetOverrides returns the explicit overrides for the tenant. An empty
	// set is not an error.
	GetOverrides(ctx context.Context, tenantID uuid.UUID) (quota.LimitSet, error)
	// Upsert applies a partial update: listed fields are replaced, all
	// others are left untouched. Current counts are never modified.
	Upsert(ctx context.Context, tenantID uuid.UUID, updates []quota.LimitUpdate) error
}

// EntityCountRepository reads authoritative cumulative entity counts
// from the primary datastore. These back the ceiling checks, so
// unavailability must propagate rather than fail open.
type EntityCountRepository interface {
	Count(ctx context.Context, tenantID uuid.UUID, resource quota.ResourceKind) (int64, error)
}

// QuotaEngine orchestrates check-and-increment across all configured
// windows for a tenant + resource pair. Implementations MUST be safe
// for concurrent use.
type QuotaEngine interface {
	// CheckAndConsume applies amount to every window the resource tracks,
	// then gates the resulting totals against their limits. The increment
	// is never rolled back: a denied call still consumes quota
	// (at-least-once counting). A denial is reported in the Decision, not
	// as an error; err is non-nil only for store failures under a
	// fail-closed policy or for invalid arguments.
	CheckAndConsume(ctx context.Context, tenantID uuid.UUID, resource quota.ResourceKind, amount int64) (*quota.Decision, error)

	// CheckCeiling compares the current cumulative entity count against
	// its static ceiling without mutating anything. The gated creation
	// happens in the caller afterwards, so this check is best-effort
	// under concurrent creation; callers needing a hard guarantee must
	// add a unique constraint or serialization at the creation layer.
	CheckCeiling(ctx context.Context, tenantID uuid.UUID, resource quota.ResourceKind) (*quota.Decision, error)

	// GetStatus returns the usage snapshot for the tenant. It never
	// increments counters, so repeated polling is side-effect-free on
	// counts; an expired window may still observe its reset.
	GetStatus(ctx context.Context, tenantID uuid.UUID) (*quota.Status, error)

	// UpdateLimits applies a partial limit update for the tenant,
	// rejecting non-positive values before any mutation.
	UpdateLimits(ctx context.Context, tenantID uuid.UUID, updates []quota.LimitUpdate) error
}
