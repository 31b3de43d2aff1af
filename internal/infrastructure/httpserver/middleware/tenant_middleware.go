package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/ports"
	"github.com/CodeFleck/sensorvision-sub007/internal/infrastructure/httpserver/helpers"
)

type TenantMiddleware struct {
	tenantService ports.TenantService
	logger        *logrus.Logger
}

func NewTenantMiddleware(tenantService ports.TenantService, logger *logrus.Logger) *TenantMiddleware {
	return &TenantMiddleware{tenantService: tenantService, logger: logger}
}

// ResolveTenant reads the caller's tenant identity from the X-Tenant-ID
// header and stores it on the request context. Requests without the
// header proceed unresolved; downstream handlers that need a tenant
// reject them.
func (t *TenantMiddleware) ResolveTenant() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(helpers.TenantIDHeader)
			if raw == "" {
				return next(c)
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				if t.logger != nil {
					t.logger.WithField("header", raw).Debug("ignoring malformed tenant id header")
				}
				return next(c)
			}
			helpers.SetTenantID(c, id)
			if t.tenantService != nil {
				if ten, err := t.tenantService.GetTenant(c.Request().Context(), id); err == nil && ten != nil {
					helpers.SetTenant(c, ten)
				}
			}
			return next(c)
		}
	}
}
