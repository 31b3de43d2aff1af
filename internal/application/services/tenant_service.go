package services

import (
	"context"
	"fmt"
	"time"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/quota"
	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/tenant"
	"github.com/CodeFleck/sensorvision-sub007/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type TenantService struct {
	repo   ports.TenantRepository
	quotas ports.QuotaEngine
	logger *logrus.Logger
}

func NewTenantService(repo ports.TenantRepository, quotas ports.QuotaEngine, logger *logrus.Logger) ports.TenantService {
	return &TenantService{
		repo:   repo,
		quotas: quotas,
		logger: logger,
	}
}

func (s *TenantService) CreateTenant(ctx context.Context, req *tenant.CreateTenantRequest) (*tenant.Tenant, error) {
	// Gate on the organization ceiling before creating. Best-effort
	// under concurrent creation; the slug unique constraint is the hard
	// guarantee at the persistence layer.
	if s.quotas != nil {
		decision, err := s.quotas.CheckCeiling(ctx, uuid.Nil, quota.ResourceOrganizations)
		if err != nil {
			return nil, fmt.Errorf("failed to check organization quota: %w", err)
		}
		if !decision.Allowed {
			return nil, decision.Exceeded()
		}
	}

	// Validate slug uniqueness
	if existingTenant, err := s.repo.GetBySlug(ctx, req.Slug); err == nil && existingTenant != nil {
		return nil, fmt.Errorf("slug '%s' is already taken", req.Slug)
	}

	newTenant := &tenant.Tenant{
		ID:        uuid.New(),
		Name:      req.Name,
		Slug:      req.Slug,
		Plan:      req.Plan,
		Status:    tenant.TenantStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, newTenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"tenant_id": newTenant.ID, "slug": newTenant.Slug}).Info("tenant created")
	}
	return newTenant, nil
}

func (s *TenantService) GetTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return t, nil
}

// GetActiveTenant returns the tenant only if it can access the platform.
func (s *TenantService) GetActiveTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	t, err := s.GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.CanAccess() {
		return nil, fmt.Errorf("tenant is %s", t.Status)
	}
	return t, nil
}

func (s *TenantService) ListTenants(ctx context.Context, limit, offset int) ([]*tenant.Tenant, int, error) {
	tenants, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tenants: %w", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tenants: %w", err)
	}
	return tenants, total, nil
}
