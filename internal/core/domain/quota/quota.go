package quota

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResourceKind identifies a countable resource subject to quota enforcement.
type ResourceKind string

const (
	// Cumulative entity counts: monotonic, compared against a static ceiling.
	ResourceOrganizations ResourceKind = "organizations"
	ResourceUsers         ResourceKind = "users"
	ResourceDevices       ResourceKind = "devices"
	ResourceDashboards    ResourceKind = "dashboards"
	ResourceRules         ResourceKind = "rules"

	// Windowed rates: counted per time window, reset when the window ends.
	ResourceAPICalls           ResourceKind = "api_calls"
	ResourceTelemetryPoints    ResourceKind = "telemetry_points"
	ResourceFunctionExecutions ResourceKind = "function_executions"
)

// WindowKind identifies one tracked time window.
type WindowKind string

const (
	WindowMinute WindowKind = "minute"
	WindowHour   WindowKind = "hour"
	WindowDay    WindowKind = "day"
	// WindowMonth is a fixed 30-day span, not calendar-month-aware.
	// Change monthDuration if calendar semantics are ever required.
	WindowMonth WindowKind = "month"
)

const monthDuration = 30 * 24 * time.Hour

// Duration returns the span of the window. Zero for unknown kinds.
func (w WindowKind) Duration() time.Duration {
	switch w {
	case WindowMinute:
		return time.Minute
	case WindowHour:
		return time.Hour
	case WindowDay:
		return 24 * time.Hour
	case WindowMonth:
		return monthDuration
	default:
		return 0
	}
}

// windowsByResource maps each windowed resource to the ordered set of
// windows it must satisfy. Adding a window kind here needs no new code path.
var windowsByResource = map[ResourceKind][]WindowKind{
	ResourceAPICalls:           {WindowDay},
	ResourceTelemetryPoints:    {WindowDay},
	ResourceFunctionExecutions: {WindowMinute, WindowHour, WindowDay, WindowMonth},
}

// Windows returns the windows tracked for the resource, nil for cumulative kinds.
func (r ResourceKind) Windows() []WindowKind {
	return windowsByResource[r]
}

// Cumulative reports whether the resource is a monotonic entity count
// checked against a static ceiling rather than a windowed rate.
func (r ResourceKind) Cumulative() bool {
	_, windowed := windowsByResource[r]
	return !windowed
}

// WindowedResources lists all windowed resource kinds in a stable order.
func WindowedResources() []ResourceKind {
	return []ResourceKind{ResourceAPICalls, ResourceTelemetryPoints, ResourceFunctionExecutions}
}

// CumulativeResources lists all cumulative resource kinds in a stable order.
func CumulativeResources() []ResourceKind {
	return []ResourceKind{ResourceOrganizations, ResourceUsers, ResourceDevices, ResourceDashboards, ResourceRules}
}

// Valid reports whether r names a known resource kind.
func (r ResourceKind) Valid() bool {
	switch r {
	case ResourceOrganizations, ResourceUsers, ResourceDevices, ResourceDashboards, ResourceRules,
		ResourceAPICalls, ResourceTelemetryPoints, ResourceFunctionExecutions:
		return true
	}
	return false
}

// LimitKey addresses one limit value inside a LimitSet.
// Window is empty for cumulative ceilings.
type LimitKey struct {
	Resource ResourceKind `json:"resource"`
	Window   WindowKind   `json:"window,omitempty"`
}

// MarshalText encodes the key as "resource/window" so LimitSet survives
// JSON round trips through the cache layer.
func (k LimitKey) MarshalText() ([]byte, error) {
	if k.Window == "" {
		return []byte(string(k.Resource)), nil
	}
	return []byte(string(k.Resource) + "/" + string(k.Window)), nil
}

// UnmarshalText decodes the "resource/window" form produced by MarshalText.
func (k *LimitKey) UnmarshalText(text []byte) error {
	s := string(text)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		k.Resource = ResourceKind(s[:i])
		k.Window = WindowKind(s[i+1:])
		return nil
	}
	k.Resource = ResourceKind(s)
	k.Window = ""
	return nil
}

// LimitSet maps {resource, window} pairs to their limit values.
// It is immutable during a check; updates produce a new resolution on
// the next check, never a retroactive recomputation.
type LimitSet map[LimitKey]int64

// Limit returns the configured value for the key, ok=false if absent.
func (ls LimitSet) Limit(resource ResourceKind, window WindowKind) (int64, bool) {
	v, ok := ls[LimitKey{Resource: resource, Window: window}]
	return v, ok
}

// Merge overlays the overrides onto a copy of the base set.
func (ls LimitSet) Merge(overrides LimitSet) LimitSet {
	merged := make(LimitSet, len(ls)+len(overrides))
	for k, v := range ls {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// LimitUpdate is one field of a partial administrative limit update.
type LimitUpdate struct {
	Resource ResourceKind `json:"resource"`
	Window   WindowKind   `json:"window,omitempty"`
	Value    int64        `json:"value"`
}

// FailurePolicy selects the behavior of windowed checks when the
// counter store is unreachable.
type FailurePolicy string

const (
	// FailOpen treats store failures as allowed: availability over
	// strict enforcement. The failure is always logged.
	FailOpen FailurePolicy = "open"
	// FailClosed propagates store failures to the caller as StoreUnavailable.
	FailClosed FailurePolicy = "closed"
)

// Decision is the outcome of a single quota check.
// Count and Limit describe the window that denied the call, or the
// most-utilized window when the call is allowed.
type Decision struct {
	Allowed  bool         `json:"allowed"`
	Resource ResourceKind `json:"resource"`
	Window   WindowKind   `json:"window,omitempty"`
	Count    int64        `json:"count"`
	Limit    int64        `json:"limit"`
	// Remaining is the tightest headroom across all tracked windows, floored at 0.
	Remaining int64 `json:"remaining"`
	// Warning is an advisory signal raised when usage exceeds the
	// configured warning fraction of any window's limit. Never a denial.
	Warning bool      `json:"warning"`
	ResetAt time.Time `json:"reset_at,omitempty"`
}

// Exceeded converts a denied decision into its typed error. Nil if allowed.
func (d *Decision) Exceeded() *QuotaExceededError {
	if d == nil || d.Allowed {
		return nil
	}
	return &QuotaExceededError{Resource: d.Resource, Window: d.Window, Count: d.Count, Limit: d.Limit}
}

// WindowUsage is the status snapshot of one counter window.
type WindowUsage struct {
	Window    WindowKind `json:"window"`
	Limit     int64      `json:"limit"`
	Count     int64      `json:"count"`
	Remaining int64      `json:"remaining"`
	// ResetAt is zero when the window has seen no activity yet.
	ResetAt time.Time `json:"reset_at,omitempty"`
}

// RateUsage groups the window snapshots of one windowed resource.
type RateUsage struct {
	Resource ResourceKind  `json:"resource"`
	Windows  []WindowUsage `json:"windows"`
}

// EntityUsage is the status snapshot of one cumulative entity count.
type EntityUsage struct {
	Resource  ResourceKind `json:"resource"`
	Count     int64        `json:"count"`
	Limit     int64        `json:"limit"`
	Remaining int64        `json:"remaining"`
}

// Status is a read-only usage snapshot for one tenant. It is derived
// from the counter store and entity counts on every call, never cached.
type Status struct {
	TenantID    uuid.UUID     `json:"tenant_id"`
	Entities    []EntityUsage `json:"entities"`
	Rates       []RateUsage   `json:"rates"`
	GeneratedAt time.Time     `json:"generated_at"`
}
