package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nordunet/transcriber-adapter/internal/config"
)

func TestResolveModel(t *testing.T) {
	cfg := &config.ModelConfig{
		DefaultModel:     "base",
		LanguageOverride: map[string]string{"sv": "sv-model"},
		PartnerOverride: map[string]map[string]string{
			"42": {"en": "en-custom"},
		},
	}

	tests := []struct {
		name      string
		partnerID int
		language  string
		expected  string
	}{
		{
			name:      "language override wins when partner has no entry for the language",
			partnerID: 42,
			language:  "sv",
			expected:  "sv-model",
		},
		{
			name:      "partner+language override beats everything",
			partnerID: 42,
			language:  "en",
			expected:  "en-custom",
		},
		{
			name:      "default when nothing matches",
			partnerID: 7,
			language:  "en",
			expected:  "base",
		},
		{
			name:      "language override applies to any partner",
			partnerID: 7,
			language:  "sv",
			expected:  "sv-model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveModel(cfg, tt.partnerID, tt.language))
		})
	}
}

func TestResolveModelEmptyOverrides(t *testing.T) {
	cfg := config.DefaultModelConfig()
	assert.Equal(t, config.DefaultModel, ResolveModel(cfg, 1, "no"))
}
