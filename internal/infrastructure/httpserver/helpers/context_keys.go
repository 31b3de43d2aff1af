package helpers

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/tenant"
)

type ctxKey string

const (
	keyTenant   ctxKey = "tenant"
	keyTenantID ctxKey = "tenant_id"
)

func SetTenant(c echo.Context, t *tenant.Tenant) { c.Set(string(keyTenant), t) }
func GetTenant(c echo.Context) (*tenant.Tenant, bool) {
	v := c.Get(string(keyTenant))
	t, ok := v.(*tenant.Tenant)
	return t, ok
}

func SetTenantID(c echo.Context, id uuid.UUID) { c.Set(string(keyTenantID), id) }
func GetTenantIDRaw(c echo.Context) (uuid.UUID, bool) {
	v := c.Get(string(keyTenantID))
	id, ok := v.(uuid.UUID)
	return id, ok
}
