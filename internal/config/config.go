// Package config loads service configuration from environment variables,
// with an optional YAML roles file for agent preambles.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server     ServerConfig
	LLM        LLMConfig
	Analysis   AnalysisConfig
	Monitoring MonitoringConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Mode         string // "debug" or "release"
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	EnableCORS   bool
	CORSOrigins  []string
}

type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	Temperature float64
}

type AnalysisConfig struct {
	// MaxIterations bounds the analyst dialogue loop.
	MaxIterations int
	// TurnTimeout applies to each individual agent invocation.
	TurnTimeout time.Duration
	// RolesFile optionally overrides agent preambles (YAML).
	RolesFile string
	// GenerateTasks controls the post-analysis task-list pass.
	GenerateTasks bool
	// Retention is how long finished conversations stay exportable before
	// the background sweep removes them. Zero disables the sweep.
	Retention time.Duration
}

type MonitoringConfig struct {
	Enabled     bool
	MetricsPath string
	LogLevel    string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8000"),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getDurationEnv("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("WRITE_TIMEOUT", 5*time.Minute),
			EnableCORS:   getBoolEnv("CORS_ENABLED", true),
			CORSOrigins:  getEnvSlice("CORS_ORIGINS", []string{"*"}),
		},
		LLM: LLMConfig{
			APIKey:      getEnv("GOOGLE_API_KEY", ""),
			BaseURL:     getEnv("LLM_BASE_URL", ""),
			Model:       getEnv("LLM_MODEL", "gemini-2.5-flash"),
			Timeout:     getDurationEnv("LLM_TIMEOUT", 60*time.Second),
			MaxRetries:  getIntEnv("LLM_MAX_RETRIES", 0),
			Temperature: getFloatEnv("LLM_TEMPERATURE", 0.7),
		},
		Analysis: AnalysisConfig{
			MaxIterations: getIntEnv("ANALYSIS_MAX_ITERATIONS", 10),
			TurnTimeout:   getDurationEnv("ANALYSIS_TURN_TIMEOUT", 60*time.Second),
			RolesFile:     getEnv("AGENT_ROLES_FILE", ""),
			GenerateTasks: getBoolEnv("ANALYSIS_GENERATE_TASKS", true),
			Retention:     getDurationEnv("ANALYSIS_RETENTION", 24*time.Hour),
		},
		Monitoring: MonitoringConfig{
			Enabled:     getBoolEnv("METRICS_ENABLED", true),
			MetricsPath: getEnv("METRICS_PATH", "/metrics"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
