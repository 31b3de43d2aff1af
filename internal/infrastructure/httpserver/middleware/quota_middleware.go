package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/quota"
	"github.com/CodeFleck/sensorvision-sub007/internal/core/ports"
	"github.com/CodeFleck/sensorvision-sub007/internal/infrastructure/httpserver/helpers"
)

type QuotaMiddleware struct {
	quotas ports.QuotaEngine
	logger *logrus.Logger
}

func NewQuotaMiddleware(quotas ports.QuotaEngine, logger *logrus.Logger) *QuotaMiddleware {
	return &QuotaMiddleware{quotas: quotas, logger: logger}
}

// Handler gates every resolved-tenant request on the daily api_calls
// quota. Each request consumes one unit before the gate is evaluated,
// so a denied request still counts toward usage.
func (q *QuotaMiddleware) Handler() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// No tenant context — unauthenticated or admin traffic, skip the gate
			tenantID, ok := helpers.GetTenantIDRaw(c)
			if !ok {
				return next(c)
			}

			decision, err := q.quotas.CheckAndConsume(c.Request().Context(), tenantID, quota.ResourceAPICalls, 1)
			if err != nil {
				// Fail-closed policy surfaced a store failure.
				if q.logger != nil {
					q.logger.WithError(err).WithField("tenant_id", tenantID).Error("api quota check failed")
				}
				return echo.NewHTTPError(http.StatusServiceUnavailable, "quota check unavailable")
			}

			c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", decision.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", decision.Remaining))
			if !decision.ResetAt.IsZero() {
				c.Response().Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", decision.ResetAt.Unix()))
			}
			if decision.Warning {
				c.Response().Header().Set("X-Quota-Warning", "true")
			}

			if !decision.Allowed {
				return echo.NewHTTPError(http.StatusTooManyRequests, decision.Exceeded().Error())
			}
			return next(c)
		}
	}
}
