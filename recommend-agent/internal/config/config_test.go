package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.TopK)
	assert.Equal(t, 1, cfg.GradeConcurrency)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Contains(t, cfg.Categories, "headphones")
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "4")
	t.Setenv("GRADE_CONCURRENCY", "3")
	t.Setenv("STEP_TIMEOUT", "15s")
	t.Setenv("WEB_SEARCH_PROVIDER", "Google")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CATEGORIES", " laptops , ,mice")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.TopK)
	assert.Equal(t, 3, cfg.GradeConcurrency)
	assert.Equal(t, 15*time.Second, cfg.StepTimeout)
	assert.Equal(t, "google", cfg.SearchProvider)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"laptops", "mice"}, cfg.Categories)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CHAT_MODEL=llama3\nTAVILY_API_KEY=tvly-123\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("CHAT_MODEL")
		os.Unsetenv("TAVILY_API_KEY")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "llama3", cfg.ChatModel)
	assert.Equal(t, "tvly-123", cfg.TavilyAPIKey)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "six")
	t.Setenv("STEP_TIMEOUT", "soon")
	t.Setenv("WEB_SEARCH_PROVIDER", "bing")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "RETRIEVAL_TOP_K")
	assert.ErrorContains(t, err, "STEP_TIMEOUT")
	assert.ErrorContains(t, err, "bing")
}
