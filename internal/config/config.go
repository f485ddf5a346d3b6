package config

import (
	"os"
	"strconv"
	"time"

	"cellscope/internal/errors"
)

// Store backend identifiers accepted by STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Store     StoreConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds the results-file catalog settings
type DataConfig struct {
	Dir string
}

// StoreConfig selects the result-store backend. Memory needs no DSN;
// postgres uses DatabaseURL, sqlite uses SQLitePath.
type StoreConfig struct {
	Backend     string
	DatabaseURL string
	SQLitePath  string
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it.
// Every variable has a default that reproduces the plain local deployment:
// memory store over CSV files in ./data.
func Load() (*Config, error) {
	config := &Config{
		Server:    loadServerConfig(),
		Data:      loadDataConfig(),
		Store:     loadStoreConfig(),
		Profiling: loadProfilingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadDataConfig() DataConfig {
	return DataConfig{
		Dir: getEnvOrDefault("DATA_DIR", "data"),
	}
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{
		Backend:     getEnvOrDefault("STORE_BACKEND", BackendMemory),
		DatabaseURL: getEnvOrDefault("DATABASE_URL", ""),
		SQLitePath:  getEnvOrDefault("SQLITE_PATH", "cellscope.db"),
	}
}

func loadProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	switch config.Store.Backend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		if config.Store.DatabaseURL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres store backend")
		}
	default:
		return errors.ConfigInvalid("STORE_BACKEND must be one of memory, postgres, sqlite")
	}
	if config.Data.Dir == "" {
		return errors.ConfigInvalid("DATA_DIR must not be empty")
	}
	return nil
}

// DSN returns the connection string for the configured SQL backend.
func (c StoreConfig) DSN() string {
	if c.Backend == BackendSQLite {
		return c.SQLitePath
	}
	return c.DatabaseURL
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// Duration parsing helper (for future use)
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
