package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/CodeFleck/sensorvision-sub007/configs"
	"github.com/CodeFleck/sensorvision-sub007/internal/application/services"
	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/quota"
	"github.com/CodeFleck/sensorvision-sub007/internal/core/ports"
	"github.com/CodeFleck/sensorvision-sub007/internal/infrastructure/db"
	"github.com/CodeFleck/sensorvision-sub007/internal/infrastructure/health"
	"github.com/CodeFleck/sensorvision-sub007/internal/infrastructure/httpserver"
	"github.com/CodeFleck/sensorvision-sub007/internal/infrastructure/redis"
	"github.com/CodeFleck/sensorvision-sub007/internal/infrastructure/repositories"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting SensorVision platform...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Initialize generic Redis cache for read-heavy entities
	redisCache := redis.NewRedisCache(redisClient, "appcache")

	// Select the counter store backend
	var counterStore ports.CounterStore
	switch cfg.Quota.Backend {
	case "postgres":
		counterStore = repositories.NewCounterStorePGRepository(database, logger)
	case "memory":
		counterStore = repositories.NewCounterStoreMemory(nil)
	default:
		counterStore = redis.NewCounterStore(redisClient)
	}
	logger.Infof("Quota counter store backend: %s", cfg.Quota.Backend)

	// Initialize all db repository implementations
	tenantRepo := repositories.NewTenantRepository(database, logger)
	deviceRepo := repositories.NewDeviceRepository(database, logger)
	baseLimitRepo := repositories.NewLimitRepository(database, logger)
	entityCountRepo := repositories.NewEntityCountRepository(database)

	// Decorate with caching (choose TTLs)
	limitRepo := repositories.NewCachingLimitRepository(baseLimitRepo, redisCache, cfg.Quota.LimitCacheTTL)

	// Wire the quota engine with global default limits from config
	engineConfig := &services.QuotaEngineConfig{
		Defaults:      defaultLimits(&cfg.Quota),
		KeyPrefix:     cfg.Quota.KeyPrefix,
		WarnThreshold: cfg.Quota.WarnThreshold,
		FailurePolicy: quota.FailurePolicy(cfg.Quota.FailurePolicy),
	}
	quotaEngine := services.NewQuotaEngine(counterStore, limitRepo, entityCountRepo, engineConfig, logger)

	tenantService := services.NewTenantService(tenantRepo, quotaEngine, logger)
	deviceService := services.NewDeviceService(deviceRepo, quotaEngine, logger)

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewRedisHealthChecker(redisClient)}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
	}

	// Initialize HTTP server using ServerDeps for clearer wiring
	deps := httpserver.ServerDeps{
		TenantService:  tenantService,
		DeviceService:  deviceService,
		QuotaEngine:    quotaEngine,
		HealthCheckers: hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}

// defaultLimits translates the flat config values into the limit set the
// quota engine consumes.
func defaultLimits(q *config.QuotaConfig) quota.LimitSet {
	return quota.LimitSet{
		{Resource: quota.ResourceOrganizations}:                                  q.MaxOrganizations,
		{Resource: quota.ResourceUsers}:                                          q.MaxUsersPerOrg,
		{Resource: quota.ResourceDevices}:                                        q.MaxDevicesPerOrg,
		{Resource: quota.ResourceDashboards}:                                     q.MaxDashboardsPerOrg,
		{Resource: quota.ResourceRules}:                                          q.MaxRulesPerOrg,
		{Resource: quota.ResourceAPICalls, Window: quota.WindowDay}:              q.MaxAPICallsPerDay,
		{Resource: quota.ResourceTelemetryPoints, Window: quota.WindowDay}:       q.MaxTelemetryPointsPerDay,
		{Resource: quota.ResourceFunctionExecutions, Window: quota.WindowMinute}: q.FunctionExecutionsPerMinute,
		{Resource: quota.ResourceFunctionExecutions, Window: quota.WindowHour}:   q.FunctionExecutionsPerHour,
		{Resource: quota.ResourceFunctionExecutions, Window: quota.WindowDay}:    q.FunctionExecutionsPerDay,
		{Resource: quota.ResourceFunctionExecutions, Window: quota.WindowMonth}:  q.FunctionExecutionsPerMonth,
	}
}
