package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/ports"
)

// MiddlewareCollection holds all middleware instances
type MiddlewareCollection struct {
	Tenant  *TenantMiddleware
	Logging *LoggingMiddleware
	Quota   *QuotaMiddleware
	Metrics *MetricsMiddleware
}

// NewMiddlewareCollection creates a new collection of all middleware
func NewMiddlewareCollection(
	tenantService ports.TenantService,
	quotaEngine ports.QuotaEngine,
	logger *logrus.Logger,
	requestsTotal *prometheus.CounterVec,
	requestDuration *prometheus.HistogramVec,
) *MiddlewareCollection {
	return &MiddlewareCollection{
		Tenant:  NewTenantMiddleware(tenantService, logger),
		Logging: NewLoggingMiddleware(logger),
		Quota:   NewQuotaMiddleware(quotaEngine, logger),
		Metrics: NewMetricsMiddleware(requestsTotal, requestDuration),
	}
}
