package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config represents the complete application configuration
type Config struct {
	Battery  BatteryConfig
	Database DatabaseConfig
	Report   ReportConfig
}

// BatteryConfig holds battery execution settings
type BatteryConfig struct {
	Significance float64
	Tests        []string
	SkipCache    bool
}

// DatabaseConfig holds the optional result ledger connection settings
type DatabaseConfig struct {
	URL     string
	Enabled bool
}

// ReportConfig holds report export settings
type ReportConfig struct {
	ExcelFile string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Battery:  loadBatteryConfig(),
		Database: loadDatabaseConfig(),
		Report:   loadReportConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func loadBatteryConfig() BatteryConfig {
	cfg := BatteryConfig{
		Significance: getEnvFloatOrDefault("SIGNIFICANCE", 0.01),
		SkipCache:    getEnvBoolOrDefault("SKIP_CACHE", false),
	}
	if names := os.Getenv("BATTERY_TESTS"); names != "" {
		for _, name := range strings.Split(names, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Tests = append(cfg.Tests, name)
			}
		}
	}
	return cfg
}

func loadDatabaseConfig() DatabaseConfig {
	url := os.Getenv("DATABASE_URL")
	return DatabaseConfig{
		URL:     url,
		Enabled: url != "",
	}
}

func loadReportConfig() ReportConfig {
	return ReportConfig{
		ExcelFile: getEnvOrDefault("EXCEL_FILE", ""),
	}
}

func validateConfig(config *Config) error {
	if config.Battery.Significance <= 0 || config.Battery.Significance >= 1 {
		return fmt.Errorf("SIGNIFICANCE must be in (0, 1), got %g", config.Battery.Significance)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
