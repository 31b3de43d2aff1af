package httpserver

import (
	"errors"
	"net/http"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/quota"
	"github.com/CodeFleck/sensorvision-sub007/internal/infrastructure/httpserver/helpers"
	"github.com/labstack/echo/v4"
)

func (s *Server) getQuotaStatus(c echo.Context) error {
	tenantID, err := helpers.TenantIDFromParam(c)
	if err != nil {
		return err
	}
	status, err := s.quotaEngine.GetStatus(c.Request().Context(), tenantID)
	if err != nil {
		if errors.Is(err, quota.ErrStoreUnavailable) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "quota backend unavailable")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, status)
}

type updateLimitsRequest struct {
	Limits []quota.LimitUpdate `json:"limits"`
}

func (s *Server) updateQuotaLimits(c echo.Context) error {
	tenantID, err := helpers.TenantIDFromParam(c)
	if err != nil {
		return err
	}
	var req updateLimitsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Limits) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no limit updates supplied")
	}
	if err := s.quotaEngine.UpdateLimits(c.Request().Context(), tenantID, req.Limits); err != nil {
		var invalid *quota.InvalidLimitError
		if errors.As(err, &invalid) {
			return echo.NewHTTPError(http.StatusBadRequest, invalid.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

type checkQuotaRequest struct {
	Resource quota.ResourceKind `json:"resource"`
	Amount   int64              `json:"amount"`
}

// checkQuota is the explicit gate-and-increment endpoint used by
// collaborators that meter work themselves, e.g. the function runtime
// consuming one function_executions unit per invocation.
func (s *Server) checkQuota(c echo.Context) error {
	tenantID, err := helpers.TenantIDFromParam(c)
	if err != nil {
		return err
	}
	var req checkQuotaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if !req.Resource.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown resource kind")
	}
	if req.Amount == 0 {
		req.Amount = 1
	}

	var decision *quota.Decision
	if req.Resource.Cumulative() {
		decision, err = s.quotaEngine.CheckCeiling(c.Request().Context(), tenantID, req.Resource)
	} else {
		decision, err = s.quotaEngine.CheckAndConsume(c.Request().Context(), tenantID, req.Resource, req.Amount)
	}
	if err != nil {
		if errors.Is(err, quota.ErrStoreUnavailable) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "quota backend unavailable")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	code := http.StatusOK
	if !decision.Allowed {
		code = http.StatusTooManyRequests
	}
	return c.JSON(code, decision)
}
