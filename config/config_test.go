package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/trips")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, 1.0, cfg.LLM.Temperature)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Weather.CacheTTL)
	assert.Equal(t, 100, cfg.Database.MaxOpenConns)
	assert.Equal(t, "prompt_svc", cfg.Mongo.DB)
	assert.Empty(t, cfg.Sweep.Schedule)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/trips")
	t.Setenv("LLM_PROVIDER", " Vertex ")
	t.Setenv("VERTEX_PROJECT_ID", "demo")
	t.Setenv("LLM_TEMPERATURE", "0.4")
	t.Setenv("LLM_TIMEOUT", "15s")
	t.Setenv("WEATHER_CACHE_TTL", "2h")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("SWEEP_SCHEDULE", "@every 10m")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderVertex, cfg.LLM.Provider)
	assert.Equal(t, "demo", cfg.Vertex.ProjectID)
	assert.InDelta(t, 0.4, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 2*time.Hour, cfg.Weather.CacheTTL)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.Addr)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.Equal(t, "@every 10m", cfg.Sweep.Schedule)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := &Config{LLM: LLMConfig{Provider: ProviderOpenAI, Temperature: 1}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	cfg = &Config{Database: DatabaseConfig{URL: "x"}, LLM: LLMConfig{Provider: "anthropic"}}
	assert.ErrorContains(t, cfg.Validate(), "LLM_PROVIDER")

	cfg = &Config{Database: DatabaseConfig{URL: "x"}, LLM: LLMConfig{Provider: ProviderVertex, Temperature: 3}}
	err = cfg.Validate()
	assert.ErrorContains(t, err, "VERTEX_PROJECT_ID")
	assert.ErrorContains(t, err, "LLM_TEMPERATURE")
}

func TestInitLLM(t *testing.T) {
	cfg := &Config{LLM: LLMConfig{Provider: ProviderOpenAI, APIKey: "sk-test"}}
	p, err := InitLLM(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	cfg.LLM.APIKey = ""
	_, err = InitLLM(context.Background(), cfg)
	assert.Error(t, err)

	cfg.LLM.Provider = "nope"
	_, err = InitLLM(context.Background(), cfg)
	assert.Error(t, err)
}
