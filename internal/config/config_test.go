package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)

	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, 0, cfg.LLM.MaxRetries)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-9)

	assert.Equal(t, 10, cfg.Analysis.MaxIterations)
	assert.Equal(t, 60*time.Second, cfg.Analysis.TurnTimeout)
	assert.True(t, cfg.Analysis.GenerateTasks)
	assert.Equal(t, 24*time.Hour, cfg.Analysis.Retention)

	assert.True(t, cfg.Monitoring.Enabled)
	assert.Equal(t, "/metrics", cfg.Monitoring.MetricsPath)
	assert.Equal(t, "info", cfg.Monitoring.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LLM_MODEL", "gemini-2.5-pro")
	t.Setenv("LLM_MAX_RETRIES", "3")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("ANALYSIS_MAX_ITERATIONS", "6")
	t.Setenv("ANALYSIS_TURN_TIMEOUT", "90s")
	t.Setenv("ANALYSIS_GENERATE_TASKS", "false")
	t.Setenv("ANALYSIS_RETENTION", "30m")
	t.Setenv("METRICS_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 6, cfg.Analysis.MaxIterations)
	assert.Equal(t, 90*time.Second, cfg.Analysis.TurnTimeout)
	assert.False(t, cfg.Analysis.GenerateTasks)
	assert.Equal(t, 30*time.Minute, cfg.Analysis.Retention)
	assert.False(t, cfg.Monitoring.Enabled)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("ANALYSIS_MAX_ITERATIONS", "not-a-number")
	t.Setenv("ANALYSIS_TURN_TIMEOUT", "soon")
	t.Setenv("LLM_TEMPERATURE", "warm")
	t.Setenv("METRICS_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 10, cfg.Analysis.MaxIterations)
	assert.Equal(t, 60*time.Second, cfg.Analysis.TurnTimeout)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-9)
	assert.True(t, cfg.Monitoring.Enabled)
}
