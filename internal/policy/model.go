package policy

import (
	"strconv"

	"github.com/nordunet/transcriber-adapter/internal/config"
)

// ResolveModel picks the transcription model for a task. Most specific wins:
// partner+language override, then language override, then the global default.
func ResolveModel(cfg *config.ModelConfig, partnerID int, language string) string {
	model := cfg.DefaultModel
	if m, ok := cfg.LanguageOverride[language]; ok {
		model = m
	}
	if partner, ok := cfg.PartnerOverride[strconv.Itoa(partnerID)]; ok {
		if m, ok := partner[language]; ok {
			model = m
		}
	}
	return model
}
