package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txintel/txintel/internal/common"
	"github.com/txintel/txintel/internal/extract"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadEngineConfig_Defaults(t *testing.T) {
	resetViper(t)

	cfg, err := LoadEngineConfig()
	require.NoError(t, err)

	assert.Equal(t, 0.85, cfg.AutoApplyThreshold)
	assert.Equal(t, extract.DefaultPasses, cfg.ExtractionPasses)
	assert.Equal(t, extract.DefaultTimeout, cfg.ExtractionTimeout)
	assert.Equal(t, 3.0, cfg.AnomalyMultiplier)
	assert.True(t, cfg.AnomalyDetection)
	assert.Empty(t, cfg.KeywordTable)
}

func TestLoadEngineConfig_Overrides(t *testing.T) {
	resetViper(t)

	viper.Set("engine.auto_apply_threshold", 0.95)
	viper.Set("engine.extraction_passes", 3)
	viper.Set("engine.extraction_timeout", "45s")
	viper.Set("engine.anomaly_detection", false)

	cfg, err := LoadEngineConfig()
	require.NoError(t, err)

	assert.Equal(t, 0.95, cfg.AutoApplyThreshold)
	assert.Equal(t, 3, cfg.ExtractionPasses)
	assert.Equal(t, 45*time.Second, cfg.ExtractionTimeout)
	assert.False(t, cfg.AnomalyDetection)
}

func TestLoadEngineConfig_KeywordTable(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "keywords.yaml")
	table := `
categories:
  - category: Groceries
    keywords: [grocery, market]
    confidence: 0.9
`
	require.NoError(t, os.WriteFile(path, []byte(table), 0o600))
	viper.Set("engine.keyword_table", path)

	cfg, err := LoadEngineConfig()
	require.NoError(t, err)
	require.Len(t, cfg.KeywordTable, 1)
	assert.Equal(t, "Groceries", cfg.KeywordTable[0].Category)
}

func TestLoadEngineConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "threshold above one", key: "engine.auto_apply_threshold", value: 1.5},
		{name: "threshold zero", key: "engine.auto_apply_threshold", value: 0.0},
		{name: "zero passes", key: "engine.extraction_passes", value: 0},
		{name: "negative multiplier", key: "engine.anomaly_multiplier", value: -1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			viper.Set(tt.key, tt.value)

			_, err := LoadEngineConfig()
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestLoadExtractionConfig(t *testing.T) {
	resetViper(t)

	viper.Set("extraction.provider", "openai")
	viper.Set("extraction.model", "gpt-4o-mini")
	viper.Set("extraction.api_key", "sk-test")

	cfg := LoadExtractionConfig()
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, extract.DefaultTimeout, cfg.Timeout)
}

func TestLoadExtractionConfig_EnvFallback(t *testing.T) {
	resetViper(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama:11434")

	cfg := LoadExtractionConfig()
	assert.Equal(t, "sk-env", cfg.APIKey)
	assert.Equal(t, "http://ollama:11434", cfg.BaseURL)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x.yaml"), ExpandPath("~/x.yaml"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "", ExpandPath(""))

	t.Setenv("TXINTEL_TEST_DIR", "/tmp/txintel")
	assert.Equal(t, "/tmp/txintel/cfg.yaml", ExpandPath("$TXINTEL_TEST_DIR/cfg.yaml"))
}
