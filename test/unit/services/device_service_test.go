package services_test

import (
	"context"
	"errors"
	"testing"

	impl "github.com/CodeFleck/sensorvision-sub007/internal/application/services"
	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/device"
	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/quota"
	tmocks "github.com/CodeFleck/sensorvision-sub007/test/mocks"
	"github.com/google/uuid"
)

func TestRegisterDevice_Success(t *testing.T) {
	tenantID := uuid.New()
	repo := &tmocks.DeviceRepositoryMock{}
	svc := impl.NewDeviceService(repo, &tmocks.QuotaEngineMock{}, nil)

	d, err := svc.RegisterDevice(context.Background(), tenantID, &device.CreateDeviceRequest{Name: "pump-1", ExternalID: "ext-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.TenantID != tenantID {
		t.Fatalf("device bound to wrong tenant")
	}
}

func TestRegisterDevice_CeilingReached(t *testing.T) {
	tenantID := uuid.New()
	createCalled := false
	repo := &tmocks.DeviceRepositoryMock{CreateFn: func(ctx context.Context, d *device.Device) error {
		createCalled = true
		return nil
	}}
	engine := &tmocks.QuotaEngineMock{
		CheckCeilingFn: func(ctx context.Context, id uuid.UUID, resource quota.ResourceKind) (*quota.Decision, error) {
			if id != tenantID {
				t.Fatalf("ceiling checked for wrong tenant")
			}
			if resource != quota.ResourceDevices {
				t.Fatalf("unexpected resource %s", resource)
			}
			return &quota.Decision{Allowed: false, Resource: resource, Count: 100, Limit: 100}, nil
		},
	}
	svc := impl.NewDeviceService(repo, engine, nil)

	_, err := svc.RegisterDevice(context.Background(), tenantID, &device.CreateDeviceRequest{Name: "pump-1", ExternalID: "ext-1"})
	if err == nil {
		t.Fatalf("expected ceiling error")
	}
	var exceeded *quota.QuotaExceededError
	if !errors.As(err, &exceeded) {
		t.Fatalf("expected QuotaExceededError, got %v", err)
	}
	if createCalled {
		t.Fatalf("device must not be created past the ceiling")
	}
}
