package ports

import (
	"context"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/device"
	"github.com/google/uuid"
)

// DeviceRepository defines the interface for device data operations
type DeviceRepository interface {
	Create(ctx context.Context, d *device.Device) error
	GetByID(ctx context.Context, id uuid.UUID) (*device.Device, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*device.Device, error)
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// DeviceService defines the interface for device business logic
type DeviceService interface {
	RegisterDevice(ctx context.Context, tenantID uuid.UUID, req *device.CreateDeviceRequest) (*device.Device, error)
	GetDevice(ctx context.Context, id uuid.UUID) (*device.Device, error)
	ListDevices(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*device.Device, error)
}
