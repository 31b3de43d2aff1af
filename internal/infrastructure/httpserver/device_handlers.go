package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/device"
	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/quota"
	"github.com/CodeFleck/sensorvision-sub007/internal/infrastructure/httpserver/helpers"
	"github.com/labstack/echo/v4"
)

func (s *Server) registerDevice(c echo.Context) error {
	tenantID, err := helpers.TenantIDFromParam(c)
	if err != nil {
		return err
	}
	var req device.CreateDeviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.ExternalID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and external_id are required")
	}
	d, err := s.deviceService.RegisterDevice(c.Request().Context(), tenantID, &req)
	if err != nil {
		var exceeded *quota.QuotaExceededError
		if errors.As(err, &exceeded) {
			return echo.NewHTTPError(http.StatusTooManyRequests, exceeded.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, d)
}

func (s *Server) listDevices(c echo.Context) error {
	tenantID, err := helpers.TenantIDFromParam(c)
	if err != nil {
		return err
	}
	limit := 50
	offset := 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	devices, err := s.deviceService.ListDevices(c.Request().Context(), tenantID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, devices)
}
