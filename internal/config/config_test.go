package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("SCHEDULER_ENABLED", "")
	t.Setenv("SCHEDULER_INTERVAL", "")
	t.Setenv("FAVORITES_BACKEND", "")

	cfg := Load()

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.False(t, cfg.SchedulerEnabled)
	assert.Equal(t, 30*time.Second, cfg.SchedulerInterval)
	assert.Equal(t, "postgres", cfg.FavoritesBackend)
	assert.True(t, cfg.RateLimitEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LLM_PROVIDER", "Ollama")
	t.Setenv("SCHEDULER_ENABLED", "true")
	t.Setenv("SCHEDULER_INTERVAL", "2m")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "ollama", cfg.LLMProvider)
	assert.True(t, cfg.SchedulerEnabled)
	assert.Equal(t, 2*time.Minute, cfg.SchedulerInterval)
	assert.False(t, cfg.RateLimitEnabled)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SCHEDULER_ENABLED", "maybe")
	t.Setenv("SCHEDULER_INTERVAL", "soon")

	cfg := Load()

	assert.False(t, cfg.SchedulerEnabled)
	assert.Equal(t, 30*time.Second, cfg.SchedulerInterval)
}
