package ports

import (
	"context"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/tenant"
	"github.com/google/uuid"
)

// TenantRepository defines the interface for tenant data operations
type TenantRepository interface {
	Create(ctx context.Context, tenant *tenant.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error)
	List(ctx context.Context, limit, offset int) ([]*tenant.Tenant, error)
	Count(ctx context.Context) (int, error)
}

// TenantService defines the interface for tenant business logic
type TenantService interface {
	CreateTenant(ctx context.Context, req *tenant.CreateTenantRequest) (*tenant.Tenant, error)
	GetTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	GetActiveTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	ListTenants(ctx context.Context, limit, offset int) ([]*tenant.Tenant, int, error)
}
