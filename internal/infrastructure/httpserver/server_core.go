package httpserver

import (
	"time"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/ports"
	customMiddleware "github.com/CodeFleck/sensorvision-sub007/internal/infrastructure/httpserver/middleware"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type ServerDeps struct {
	TenantService  ports.TenantService
	DeviceService  ports.DeviceService
	QuotaEngine    ports.QuotaEngine
	HealthCheckers []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	tenantService  ports.TenantService
	deviceService  ports.DeviceService
	quotaEngine    ports.QuotaEngine
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		tenantService:  deps.TenantService,
		deviceService:  deps.DeviceService,
		quotaEngine:    deps.QuotaEngine,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.TenantService,
			deps.QuotaEngine,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
