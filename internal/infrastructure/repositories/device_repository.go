package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/device"
	"github.com/CodeFleck/sensorvision-sub007/internal/core/ports"
	"github.com/CodeFleck/sensorvision-sub007/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DeviceRepository implements the device repository interface
type DeviceRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(database *db.Database, logger *logrus.Logger) ports.DeviceRepository {
	return &DeviceRepository{
		db:     database,
		logger: logger,
	}
}

// Create registers a new device
func (r *DeviceRepository) Create(ctx context.Context, d *device.Device) error {
	query := `
		INSERT INTO devices (id, tenant_id, name, external_id)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.DB.ExecContext(ctx, query, d.ID, d.TenantID, d.Name, d.ExternalID)
	if err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}
	return nil
}

// GetByID retrieves a device by ID
func (r *DeviceRepository) GetByID(ctx context.Context, id uuid.UUID) (*device.Device, error) {
	var d device.Device
	query := `
		SELECT id, tenant_id, name, external_id, created_at, updated_at
		FROM devices
		WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &d, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("device not found")
		}
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	return &d, nil
}

// ListByTenant retrieves a tenant's devices with pagination
func (r *DeviceRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*device.Device, error) {
	devices := []*device.Device{}
	query := `
		SELECT id, tenant_id, name, external_id, created_at, updated_at
		FROM devices
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	if err := r.db.DB.SelectContext(ctx, &devices, query, tenantID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return devices, nil
}

// CountByTenant returns the number of devices owned by the tenant
func (r *DeviceRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM devices WHERE tenant_id = $1`, tenantID); err != nil {
		return 0, fmt.Errorf("failed to count devices: %w", err)
	}
	return count, nil
}
