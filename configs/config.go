package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	Quota    QuotaConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	DSN      string
	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// Pool and timeout settings
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

// QuotaConfig holds the quota engine settings and the global default
// limits that apply when a tenant has no explicit override.
type QuotaConfig struct {
	// Backend selects the counter store: redis, postgres or memory.
	Backend       string
	KeyPrefix     string
	WarnThreshold float64
	// FailurePolicy for windowed checks when the store is down: open or closed.
	FailurePolicy string
	// Cumulative entity ceilings
	MaxOrganizations    int64
	MaxUsersPerOrg      int64
	MaxDevicesPerOrg    int64
	MaxDashboardsPerOrg int64
	MaxRulesPerOrg      int64
	// Daily windowed limits
	MaxAPICallsPerDay        int64
	MaxTelemetryPointsPerDay int64
	// Function execution limits per window
	FunctionExecutionsPerMinute int64
	FunctionExecutionsPerHour   int64
	FunctionExecutionsPerDay    int64
	FunctionExecutionsPerMonth  int64
	// LimitCacheTTL bounds staleness of cached per-tenant overrides.
	LimitCacheTTL time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			TLSCertFile:  getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:   getEnv("TLS_KEY_FILE", ""),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "telemetry_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getDurationEnv("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:  getDurationEnv("REDIS_IDLE_TIMEOUT", 5*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Quota: QuotaConfig{
			Backend:                     getEnv("QUOTA_BACKEND", "redis"),
			KeyPrefix:                   getEnv("QUOTA_KEY_PREFIX", "quota"),
			WarnThreshold:               getFloatEnv("QUOTA_WARN_THRESHOLD", 0.9),
			FailurePolicy:               getEnv("QUOTA_FAILURE_POLICY", "open"),
			MaxOrganizations:            getInt64Env("QUOTA_MAX_ORGANIZATIONS", 10),
			MaxUsersPerOrg:              getInt64Env("QUOTA_MAX_USERS_PER_ORG", 50),
			MaxDevicesPerOrg:            getInt64Env("QUOTA_MAX_DEVICES_PER_ORG", 100),
			MaxDashboardsPerOrg:         getInt64Env("QUOTA_MAX_DASHBOARDS_PER_ORG", 20),
			MaxRulesPerOrg:              getInt64Env("QUOTA_MAX_RULES_PER_ORG", 50),
			MaxAPICallsPerDay:           getInt64Env("QUOTA_MAX_API_CALLS_PER_DAY", 100000),
			MaxTelemetryPointsPerDay:    getInt64Env("QUOTA_MAX_TELEMETRY_POINTS_PER_DAY", 1000000),
			FunctionExecutionsPerMinute: getInt64Env("QUOTA_FUNCTION_EXECUTIONS_PER_MINUTE", 60),
			FunctionExecutionsPerHour:   getInt64Env("QUOTA_FUNCTION_EXECUTIONS_PER_HOUR", 1000),
			FunctionExecutionsPerDay:    getInt64Env("QUOTA_FUNCTION_EXECUTIONS_PER_DAY", 10000),
			FunctionExecutionsPerMonth:  getInt64Env("QUOTA_FUNCTION_EXECUTIONS_PER_MONTH", 100000),
			LimitCacheTTL:               getDurationEnv("QUOTA_LIMIT_CACHE_TTL", time.Minute),
		},
	}

	// Build database DSN
	cfg.Database.DSN = fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
