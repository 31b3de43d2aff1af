package device

import (
	"time"

	"github.com/google/uuid"
)

// Device is a telemetry-emitting endpoint owned by a tenant. Device
// creation is gated by the tenant's "devices" ceiling.
type Device struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TenantID   uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name       string    `json:"name" db:"name"`
	ExternalID string    `json:"external_id" db:"external_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// CreateDeviceRequest represents the request to register a device
type CreateDeviceRequest struct {
	Name       string `json:"name" validate:"required"`
	ExternalID string `json:"external_id" validate:"required"`
}
