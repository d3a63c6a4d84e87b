package config

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// DefaultModel is used when no override matches a task's partner or language.
const DefaultModel = "whisper_large_v3"

// ModelConfig holds the transcription model override chain. Partner overrides
// are keyed by partner id, then language code; language overrides by language
// code alone.
type ModelConfig struct {
	DefaultModel     string                       `json:"default_model"`
	LanguageOverride map[string]string            `json:"language_override"`
	PartnerOverride  map[string]map[string]string `json:"partner_override"`
}

func DefaultModelConfig() *ModelConfig {
	return &ModelConfig{
		DefaultModel:     DefaultModel,
		LanguageOverride: map[string]string{},
		PartnerOverride:  map[string]map[string]string{},
	}
}

// LoadModelConfig reads the override document. A missing file is tolerated:
// operators commonly run without overrides, so it logs a warning and returns
// the built-in defaults.
func LoadModelConfig(path string) (*ModelConfig, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.S().Warnf("config file not found: %s", path)
			return DefaultModelConfig(), nil
		}
		return nil, fmt.Errorf("reading model config: %w", err)
	}

	cfg := new(ModelConfig)
	if err := json.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling model config: %w", err)
	}
	zap.S().Infof("loading config from file: %s", path)

	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultModel
	}
	if cfg.LanguageOverride == nil {
		cfg.LanguageOverride = map[string]string{}
	}
	if cfg.PartnerOverride == nil {
		cfg.PartnerOverride = map[string]map[string]string{}
	}
	return cfg, nil
}
