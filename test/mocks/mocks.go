package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/device"
	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/quota"
	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/tenant"
	"github.com/google/uuid"
)

// CounterStoreMock is a lightweight mock for CounterStore
type CounterStoreMock struct {
	IncrementAndGetFn func(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)
	GetFn             func(ctx context.Context, key string) (int64, bool, error)
	TimeToResetFn     func(ctx context.Context, key string) (time.Duration, bool, error)
}

func (m *CounterStoreMock) IncrementAndGet(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	if m.IncrementAndGetFn != nil {
		return m.IncrementAndGetFn(ctx, key, delta, ttl)
	}
	return delta, nil
}
func (m *CounterStoreMock) Get(ctx context.Context, key string) (int64, bool, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	return 0, false, nil
}
func (m *CounterStoreMock) TimeToReset(ctx context.Context, key string) (time.Duration, bool, error) {
	if m.TimeToResetFn != nil {
		return m.TimeToResetFn(ctx, key)
	}
	return 0, false, nil
}

// LimitRepository mock
type LimitRepositoryMock struct {
	GetOverridesFn func(ctx context.Context, tenantID uuid.UUID) (quota.LimitSet, error)
	UpsertFn       func(ctx context.Context, tenantID uuid.UUID, updates []quota.LimitUpdate) error
}

func (m *LimitRepositoryMock) GetOverrides(ctx context.Context, tenantID uuid.UUID) (quota.LimitSet, error) {
	if m.GetOverridesFn != nil {
		return m.GetOverridesFn(ctx, tenantID)
	}
	return nil, nil
}
func (m *LimitRepositoryMock) Upsert(ctx context.Context, tenantID uuid.UUID, updates []quota.LimitUpdate) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, tenantID, updates)
	}
	return nil
}

// EntityCountRepository mock
type EntityCountRepositoryMock struct {
	CountFn func(ctx context.Context, tenantID uuid.UUID, resource quota.ResourceKind) (int64, error)
}

func (m *EntityCountRepositoryMock) Count(ctx context.Context, tenantID uuid.UUID, resource quota.ResourceKind) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, tenantID, resource)
	}
	return 0, nil
}

// QuotaEngine mock
type QuotaEngineMock struct {
	CheckAndConsumeFn func(ctx context.Context, tenantID uuid.UUID, resource quota.ResourceKind, amount int64) (*quota.Decision, error)
	CheckCeilingFn    func(ctx context.Context, tenantID uuid.UUID, resource quota.ResourceKind) (*quota.Decision, error)
	GetStatusFn       func(ctx context.Context, tenantID uuid.UUID) (*quota.Status, error)
	UpdateLimitsFn    func(ctx context.Context, tenantID uuid.UUID, updates []quota.LimitUpdate) error
}

func (m *QuotaEngineMock) CheckAndConsume(ctx context.Context, tenantID uuid.UUID, resource quota.ResourceKind, amount int64) (*quota.Decision, error) {
	if m.CheckAndConsumeFn != nil {
		return m.CheckAndConsumeFn(ctx, tenantID, resource, amount)
	}
	return &quota.Decision{Allowed: true, Resource: resource}, nil
}
func (m *QuotaEngineMock) CheckCeiling(ctx context.Context, tenantID uuid.UUID, resource quota.ResourceKind) (*quota.Decision, error) {
	if m.CheckCeilingFn != nil {
		return m.CheckCeilingFn(ctx, tenantID, resource)
	}
	return &quota.Decision{Allowed: true, Resource: resource}, nil
}
func (m *QuotaEngineMock) GetStatus(ctx context.Context, tenantID uuid.UUID) (*quota.Status, error) {
	if m.GetStatusFn != nil {
		return m.GetStatusFn(ctx, tenantID)
	}
	return &quota.Status{TenantID: tenantID}, nil
}
func (m *QuotaEngineMock) UpdateLimits(ctx context.Context, tenantID uuid.UUID, updates []quota.LimitUpdate) error {
	if m.UpdateLimitsFn != nil {
		return m.UpdateLimitsFn(ctx, tenantID, updates)
	}
	return nil
}

// TenantRepository mock
type TenantRepositoryMock struct {
	CreateFn    func(ctx context.Context, t *tenant.Tenant) error
	GetByIDFn   func(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	GetBySlugFn func(ctx context.Context, slug string) (*tenant.Tenant, error)
	ListFn      func(ctx context.Context, limit, offset int) ([]*tenant.Tenant, error)
	CountFn     func(ctx context.Context) (int, error)
}

func (m *TenantRepositoryMock) Create(ctx context.Context, t *tenant.Tenant) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}
func (m *TenantRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("tenant not found")
}
func (m *TenantRepositoryMock) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	if m.GetBySlugFn != nil {
		return m.GetBySlugFn(ctx, slug)
	}
	return nil, fmt.Errorf("tenant not found")
}
func (m *TenantRepositoryMock) List(ctx context.Context, limit, offset int) ([]*tenant.Tenant, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, limit, offset)
	}
	return nil, nil
}
func (m *TenantRepositoryMock) Count(ctx context.Context) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return 0, nil
}

// DeviceRepository mock
type DeviceRepositoryMock struct {
	CreateFn        func(ctx context.Context, d *device.Device) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*device.Device, error)
	ListByTenantFn  func(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*device.Device, error)
	CountByTenantFn func(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

func (m *DeviceRepositoryMock) Create(ctx context.Context, d *device.Device) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}
func (m *DeviceRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*device.Device, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("device not found")
}
func (m *DeviceRepositoryMock) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*device.Device, error) {
	if m.ListByTenantFn != nil {
		return m.ListByTenantFn(ctx, tenantID, limit, offset)
	}
	return nil, nil
}
func (m *DeviceRepositoryMock) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	if m.CountByTenantFn != nil {
		return m.CountByTenantFn(ctx, tenantID)
	}
	return 0, nil
}

// TenantService mock
type TenantServiceMock struct {
	CreateTenantFn    func(ctx context.Context, req *tenant.CreateTenantRequest) (*tenant.Tenant, error)
	GetTenantFn       func(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	GetActiveTenantFn func(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	ListTenantsFn     func(ctx context.Context, limit, offset int) ([]*tenant.Tenant, int, error)
}

func (m *TenantServiceMock) CreateTenant(ctx context.Context, req *tenant.CreateTenantRequest) (*tenant.Tenant, error) {
	if m.CreateTenantFn != nil {
		return m.CreateTenantFn(ctx, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *TenantServiceMock) GetTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	if m.GetTenantFn != nil {
		return m.GetTenantFn(ctx, id)
	}
	return nil, fmt.Errorf("tenant not found")
}
func (m *TenantServiceMock) GetActiveTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	if m.GetActiveTenantFn != nil {
		return m.GetActiveTenantFn(ctx, id)
	}
	return nil, fmt.Errorf("tenant not found")
}
func (m *TenantServiceMock) ListTenants(ctx context.Context, limit, offset int) ([]*tenant.Tenant, int, error) {
	if m.ListTenantsFn != nil {
		return m.ListTenantsFn(ctx, limit, offset)
	}
	return nil, 0, nil
}

// DeviceService mock
type DeviceServiceMock struct {
	RegisterDeviceFn func(ctx context.Context, tenantID uuid.UUID, req *device.CreateDeviceRequest) (*device.Device, error)
	GetDeviceFn      func(ctx context.Context, id uuid.UUID) (*device.Device, error)
	ListDevicesFn    func(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*device.Device, error)
}

func (m *DeviceServiceMock) RegisterDevice(ctx context.Context, tenantID uuid.UUID, req *device.CreateDeviceRequest) (*device.Device, error) {
	if m.RegisterDeviceFn != nil {
		return m.RegisterDeviceFn(ctx, tenantID, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *DeviceServiceMock) GetDevice(ctx context.Context, id uuid.UUID) (*device.Device, error) {
	if m.GetDeviceFn != nil {
		return m.GetDeviceFn(ctx, id)
	}
	return nil, fmt.Errorf("device not found")
}
func (m *DeviceServiceMock) ListDevices(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*device.Device, error) {
	if m.ListDevicesFn != nil {
		return m.ListDevicesFn(ctx, tenantID, limit, offset)
	}
	return nil, nil
}
