package config

import (
	"testing"
	"time"

	"github.com/lexyai/drafter/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "key")

	cfg, err := Load("config-test")

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, ProviderAnthropic, cfg.LLMConnectorCfg.Provider)
	assert.Equal(t, "claude-sonnet-4-5", cfg.LLMConnectorCfg.Model)
	assert.Equal(t, "https://api.anthropic.com/v1", cfg.LLMConnectorCfg.Url)
	assert.Equal(t, 3.0, cfg.LLMConnectorCfg.InputCostPerMillion)
	assert.Equal(t, 7, cfg.PrecedentCfg.MaxSections)
	assert.Equal(t, 32, cfg.PrecedentCfg.LoaderCacheSize)
	assert.Equal(t, 1, cfg.DraftCfg.Concurrency)
	assert.Equal(t, 12, cfg.DraftCfg.HistoryTurns)
	assert.Equal(t, 24*time.Hour, cfg.ProgressTTL)
	assert.Equal(t, uint(3), cfg.LLMConnectorCfg.Retry.Attempts)
	assert.False(t, cfg.HasDatabase())
	assert.False(t, cfg.HasPrecedentFiles())
	assert.Equal(t, "config-test", cfg.Environment)
}

func TestLoad_ProviderOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", " OpenAI ")
	t.Setenv("LLM_TOKEN", "tok")
	t.Setenv("DRAFT_CONCURRENCY", "4")
	t.Setenv("PRECEDENT_DIR", "/srv/precedents")

	cfg, err := Load("config-test")

	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.LLMConnectorCfg.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLMConnectorCfg.Model)
	assert.Equal(t, "tok", cfg.LLMConnectorCfg.APIKey)
	assert.Empty(t, cfg.LLMConnectorCfg.Url)
	assert.Equal(t, 4, cfg.DraftCfg.Concurrency)
	assert.True(t, cfg.HasPrecedentFiles())
}

func TestLoad_MissingAPIKey(t *testing.T) {
	_, err := Load("config-test")

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrConfig)
	assert.ErrorIs(t, err, entity.ErrMissingAPIKey)
	assert.Contains(t, err.Error(), "LLM_API_KEY")
}

func TestLoad_MocksNeedNoKey(t *testing.T) {
	t.Setenv("ENABLE_MOCKS", "true")
	t.Setenv("LLM_PROVIDER", "whatever")

	cfg, err := Load("config-test")

	require.NoError(t, err)
	assert.True(t, cfg.EnableMocks)
}

func TestValidateConfig_Ranges(t *testing.T) {
	t.Setenv("LLM_API_KEY", "key")
	t.Setenv("DRAFT_CONCURRENCY", "0")
	t.Setenv("PRECEDENT_MAX_SECTIONS", "0")

	_, err := Load("config-test")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DRAFT_CONCURRENCY")
	assert.Contains(t, err.Error(), "PRECEDENT_MAX_SECTIONS")
	assert.NotErrorIs(t, err, entity.ErrMissingAPIKey)
}

func TestLoadCatalog(t *testing.T) {
	_, err := LoadCatalog("config-test")
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrConfig)

	t.Setenv("DATABASE_URL", "postgres://drafter@localhost:5432/drafter")
	cfg, err := LoadCatalog("config-test")

	require.NoError(t, err)
	assert.True(t, cfg.HasDatabase())
	assert.Empty(t, cfg.LLMConnectorCfg.APIKey)
	assert.Equal(t, 500*time.Millisecond, cfg.ProgressStreamInterval)
}

func TestGetEnvFile(t *testing.T) {
	assert.Equal(t, ".env.prod", getEnvFile("production"))
	assert.Equal(t, ".env.local", getEnvFile("dev"))
	assert.Equal(t, ".env.staging", getEnvFile("staging"))
}
