package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")

	tenants := api.Group("/tenants")
	tenants.POST("", s.createTenant)
	tenants.GET("", s.listTenants)
	tenants.GET("/:id", s.getTenant)

	tenants.GET("/:id/quota", s.getQuotaStatus)
	tenants.PUT("/:id/quota/limits", s.updateQuotaLimits)
	tenants.POST("/:id/quota/check", s.checkQuota)

	tenants.POST("/:id/devices", s.registerDevice)
	tenants.GET("/:id/devices", s.listDevices)

	tenants.POST("/:id/telemetry", s.ingestTelemetry)
}
