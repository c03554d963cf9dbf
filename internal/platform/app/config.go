package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ConnectorDir  string // Optional: directory holding connector catalog files (default: ./config/connectors)
	DatabaseFile  string // Optional: path to SQLite database file (default: ./platform.db)
	MasterKeyPath string // Optional: path to master encryption key file (default: ./master.key)

	PendingAuthTTL  time.Duration // Optional: how long an issued authorization URL stays valid (default: 10m)
	ExchangeTimeout time.Duration // Optional: timeout for provider token endpoint calls (default: 15s)
	UpstreamTimeout time.Duration // Optional: timeout for proxied upstream calls (default: 30s)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 5m)
}

func LoadConfig() Config {
	return Config{
		ConnectorDir:  getEnvOrDefault("PLATFORM_CONNECTOR_DIR", "config/connectors"),
		DatabaseFile:  getEnvOrDefault("PLATFORM_DATABASE_FILE", "platform.db"),
		MasterKeyPath: getEnvOrDefault("PLATFORM_MASTER_KEY_FILE", "master.key"),

		PendingAuthTTL:  getEnvDurationOrDefault("PLATFORM_PENDING_AUTH_TTL", 10*time.Minute),
		ExchangeTimeout: getEnvDurationOrDefault("PLATFORM_EXCHANGE_TIMEOUT", 15*time.Second),
		UpstreamTimeout: getEnvDurationOrDefault("PLATFORM_UPSTREAM_TIMEOUT", 30*time.Second),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 5*time.Minute),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are read as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
