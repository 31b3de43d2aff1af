package helpers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/tenant"
)

// TenantIDHeader carries the caller's tenant identity. Authentication is
// handled upstream (API gateway); the platform only needs the resolved id.
const TenantIDHeader = "X-Tenant-ID"

func GetTenantFromContext(c echo.Context) (*tenant.Tenant, error) {
	t, ok := GetTenant(c)
	if !ok || t == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid tenant context")
	}
	return t, nil
}

func GetActiveTenantFromContext(c echo.Context) (*tenant.Tenant, error) {
	t, err := GetTenantFromContext(c)
	if err != nil {
		return nil, err
	}
	if !t.CanAccess() {
		return nil, echo.NewHTTPError(http.StatusForbidden, fmt.Sprintf("tenant is %s", t.Status))
	}
	return t, nil
}

// GetTenantIDFromContext returns the tenant id resolved by the tenant
// middleware, or falls back to the :id route parameter for admin routes.
func GetTenantIDFromContext(c echo.Context) (uuid.UUID, error) {
	if id, ok := GetTenantIDRaw(c); ok {
		return id, nil
	}
	if raw := c.Param("id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid tenant id")
		}
		return id, nil
	}
	return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "missing tenant identity")
}

// TenantIDFromParam parses the :id route parameter.
func TenantIDFromParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid tenant id")
	}
	return id, nil
}
