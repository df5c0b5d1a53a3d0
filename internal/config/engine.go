// Package config loads engine and extraction configuration from Viper and
// environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/txintel/txintel/internal/common"
	"github.com/txintel/txintel/internal/engine"
	"github.com/txintel/txintel/internal/extract"
	"github.com/txintel/txintel/internal/heuristic"
)

// LoadEngineConfig builds the engine configuration. Precedence:
// 1. Viper configuration (config file or TXINTEL_ env vars)
// 2. Built-in defaults
func LoadEngineConfig() (engine.Config, error) {
	cfg := engine.DefaultConfig()

	if viper.IsSet("engine.auto_apply_threshold") {
		cfg.AutoApplyThreshold = viper.GetFloat64("engine.auto_apply_threshold")
	}
	if viper.IsSet("engine.extraction_passes") {
		cfg.ExtractionPasses = viper.GetInt("engine.extraction_passes")
	}
	if viper.IsSet("engine.extraction_buffer") {
		cfg.ExtractionBuffer = viper.GetInt("engine.extraction_buffer")
	}
	if viper.IsSet("engine.extraction_timeout") {
		cfg.ExtractionTimeout = viper.GetDuration("engine.extraction_timeout")
	}
	if viper.IsSet("engine.anomaly_multiplier") {
		cfg.AnomalyMultiplier = viper.GetFloat64("engine.anomaly_multiplier")
	}
	if viper.IsSet("engine.anomaly_detection") {
		cfg.AnomalyDetection = viper.GetBool("engine.anomaly_detection")
	}
	if viper.IsSet("engine.pattern_insights") {
		cfg.PatternInsights = viper.GetBool("engine.pattern_insights")
	}

	if path := viper.GetString("engine.keyword_table"); path != "" {
		table, err := heuristic.LoadTable(ExpandPath(path))
		if err != nil {
			return engine.Config{}, fmt.Errorf("loading keyword table: %w", err)
		}
		cfg.KeywordTable = table
	}

	if err := validateEngineConfig(cfg); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

func validateEngineConfig(cfg engine.Config) error {
	if cfg.AutoApplyThreshold <= 0 || cfg.AutoApplyThreshold > 1 {
		return fmt.Errorf("%w: auto_apply_threshold must be in (0, 1], got %v", common.ErrInvalidConfig, cfg.AutoApplyThreshold)
	}
	if cfg.ExtractionPasses < 1 {
		return fmt.Errorf("%w: extraction_passes must be at least 1, got %d", common.ErrInvalidConfig, cfg.ExtractionPasses)
	}
	if cfg.ExtractionBuffer < 1 {
		return fmt.Errorf("%w: extraction_buffer must be at least 1, got %d", common.ErrInvalidConfig, cfg.ExtractionBuffer)
	}
	if cfg.ExtractionTimeout <= 0 {
		return fmt.Errorf("%w: extraction_timeout must be positive, got %v", common.ErrInvalidConfig, cfg.ExtractionTimeout)
	}
	if cfg.AnomalyMultiplier <= 0 {
		return fmt.Errorf("%w: anomaly_multiplier must be positive, got %v", common.ErrInvalidConfig, cfg.AnomalyMultiplier)
	}
	return nil
}

// LoadExtractionConfig builds the extraction client configuration.
// Precedence:
// 1. Viper configuration (config file or TXINTEL_ env vars)
// 2. Direct environment variables (OLLAMA_BASE_URL, OPENAI_API_KEY)
// 3. Provider defaults applied by the client itself
func LoadExtractionConfig() extract.Config {
	cfg := extract.Config{
		Provider:   viper.GetString("extraction.provider"),
		BaseURL:    viper.GetString("extraction.base_url"),
		APIKey:     viper.GetString("extraction.api_key"),
		Model:      viper.GetString("extraction.model"),
		Timeout:    viper.GetDuration("extraction.timeout"),
		MaxRetries: viper.GetInt("extraction.max_retries"),
		RetryDelay: viper.GetDuration("extraction.retry_delay"),
		RateLimit:  viper.GetInt("extraction.rate_limit"),
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = extract.DefaultTimeout
	}

	return cfg
}
