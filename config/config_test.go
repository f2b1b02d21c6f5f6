package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsAreRunnable(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Routing.Classify)
	assert.Equal(t, "gpt-4o", cfg.LLM.Routing.Write)
	assert.Equal(t, 7, cfg.Pipeline.MaxSearchQueries)
	assert.Equal(t, 5, cfg.Pipeline.ResultsPerQuery)
	assert.Equal(t, 3, cfg.Pipeline.MaxFollowUps)
	assert.Equal(t, "serper", cfg.Sources.WebSearch.Provider)
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gradpath_config.json")
	body := `{
		"pipeline": {"max_search_queries": 3},
		"sources": {"web_search": {"provider": "brave"}}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Pipeline.MaxSearchQueries)
	assert.Equal(t, "brave", cfg.Sources.WebSearch.Provider)
	// Untouched keys keep their defaults.
	assert.Equal(t, 5, cfg.Pipeline.ResultsPerQuery)
}

func TestLoadConfig_APIKeysFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SERPER_API_KEY", "serper-test")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.LLM.Providers["openai"].APIKey)
	assert.Equal(t, "serper-test", cfg.Sources.WebSearch.SerperAPIKey)
}

func TestLoadConfig_RejectsUnknownRoutingModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gradpath_config.json")
	body := `{"llm": {"routing": {"write": "no-such-model"}}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-model")
}

func TestLoadConfig_RejectsNonPositiveCaps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gradpath_config.json")
	body := `{"pipeline": {"max_search_queries": 0}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_search_queries")
}
