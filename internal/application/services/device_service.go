package services

import (
	"context"
	"fmt"
	"time"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/device"
	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/quota"
	"github.com/CodeFleck/sensorvision-sub007/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type DeviceService struct {
	repo   ports.DeviceRepository
	quotas ports.QuotaEngine
	logger *logrus.Logger
}

func NewDeviceService(repo ports.DeviceRepository, quotas ports.QuotaEngine, logger *logrus.Logger) ports.DeviceService {
	return &DeviceService{
		repo:   repo,
		quotas: quotas,
		logger: logger,
	}
}

func (s *DeviceService) RegisterDevice(ctx context.Context, tenantID uuid.UUID, req *device.CreateDeviceRequest) (*device.Device, error) {
	// Gate on the per-tenant device ceiling before creating.
	if s.quotas != nil {
		decision, err := s.quotas.CheckCeiling(ctx, tenantID, quota.ResourceDevices)
		if err != nil {
			return nil, fmt.Errorf("failed to check device quota: %w", err)
		}
		if !decision.Allowed {
			return nil, decision.Exceeded()
		}
	}

	d := &device.Device{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Name:       req.Name,
		ExternalID: req.ExternalID,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to register device: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"tenant_id": tenantID, "device_id": d.ID}).Info("device registered")
	}
	return d, nil
}

func (s *DeviceService) GetDevice(ctx context.Context, id uuid.UUID) (*device.Device, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	return d, nil
}

func (s *DeviceService) ListDevices(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*device.Device, error) {
	devices, err := s.repo.ListByTenant(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return devices, nil
}
