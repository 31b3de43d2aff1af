package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/quota"
	"github.com/CodeFleck/sensorvision-sub007/internal/infrastructure/httpserver/helpers"
	"github.com/labstack/echo/v4"
)

type telemetryPoint struct {
	DeviceID  string         `json:"device_id"`
	Metric    string         `json:"metric"`
	Value     float64        `json:"value"`
	Timestamp time.Time      `json:"timestamp"`
	Tags      map[string]any `json:"tags,omitempty"`
}

type ingestTelemetryRequest struct {
	Points []telemetryPoint `json:"points"`
}

// ingestTelemetry meters a batch of data points against the tenant's
// telemetry_points window before acknowledging it. The batch is counted
// as a whole, so a denied batch has already consumed its units.
func (s *Server) ingestTelemetry(c echo.Context) error {
	tenantID, err := helpers.TenantIDFromParam(c)
	if err != nil {
		return err
	}
	var req ingestTelemetryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Points) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no data points supplied")
	}

	decision, err := s.quotaEngine.CheckAndConsume(c.Request().Context(), tenantID, quota.ResourceTelemetryPoints, int64(len(req.Points)))
	if err != nil {
		if errors.Is(err, quota.ErrStoreUnavailable) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "quota backend unavailable")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if decision.Warning {
		c.Response().Header().Set("X-Quota-Warning", "approaching telemetry limit")
	}
	if !decision.Allowed {
		return echo.NewHTTPError(http.StatusTooManyRequests, decision.Exceeded().Error())
	}

	c.Response().Header().Set("X-Quota-Remaining", strconv.FormatInt(decision.Remaining, 10))
	return c.JSON(http.StatusAccepted, map[string]any{
		"accepted": len(req.Points),
	})
}
