package tenant

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is an organization enrolled on the platform. Quota counters
// and limit overrides are keyed by its ID.
type Tenant struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Slug      string           `json:"slug" db:"slug"`
	Plan      SubscriptionPlan `json:"plan" db:"plan"`
	Status    TenantStatus     `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusCanceled  TenantStatus = "canceled"
)

// CanAccess returns true if the tenant can access the platform
func (t *Tenant) CanAccess() bool {
	return t.Status == TenantStatusActive
}

type SubscriptionPlan string

const (
	PlanPilot      SubscriptionPlan = "pilot"
	PlanStarter    SubscriptionPlan = "starter"
	PlanPro        SubscriptionPlan = "pro"
	PlanEnterprise SubscriptionPlan = "enterprise"
)

// CreateTenantRequest represents the request to create a new tenant
type CreateTenantRequest struct {
	Name string           `json:"name" validate:"required"`
	Slug string           `json:"slug" validate:"required,alphanum"`
	Plan SubscriptionPlan `json:"plan" validate:"required,oneof=pilot starter pro enterprise"`
}
