// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	// HTTP server
	Host string
	Port int

	// File handling
	Storage *StorageConfig

	// Transform defaults
	DefaultIDColumn string
	MaxPreviewRows  int

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is applied first when present.
func LoadConfig() (*Config, error) {
	// Missing .env is fine, real environment wins either way
	_ = godotenv.Load()

	cfg := &Config{
		Host:            getEnv("HOST", "0.0.0.0"),
		Port:            getEnvAsInt("PORT", 8000),
		Storage:         LoadStorageConfig(),
		DefaultIDColumn: getEnv("DEFAULT_ID_COLUMN", "YAZAKI PN"),
		MaxPreviewRows:  getEnvAsInt("MAX_PREVIEW_ROWS", 10),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	if c.DefaultIDColumn == "" {
		return errors.New("default ID column cannot be empty")
	}

	if c.MaxPreviewRows <= 0 {
		return errors.New("max preview rows must be positive")
	}

	if c.Storage == nil {
		return errors.New("storage configuration is required")
	}

	return c.Storage.Validate()
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
