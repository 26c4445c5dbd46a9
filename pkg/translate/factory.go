package translate

import (
	"fmt"

	"campusbot-be/internal/config"
	"campusbot-be/pkg/llm"
)

// NewClient builds the configured client. Detection is always wrapped in a
// CachedDetector, so the returned Detector and Translator may differ.
func NewClient(cfg config.TranslationConfig, provider llm.LLMProvider) (Detector, Translator, error) {
	var client Client
	switch cfg.Provider {
	case "google":
		client = NewGoogleClient(cfg.GoogleAPIKey)
	case "llm":
		client = NewLLMClient(provider)
	case "none":
		client = Nop{Canonical: cfg.CanonicalLanguage}
	default:
		return nil, nil, fmt.Errorf("unsupported translation provider: %s", cfg.Provider)
	}

	ttl := cfg.DetectCacheTTL
	if ttl <= 0 {
		return client, client, nil
	}
	return NewCachedDetector(client, ttl), client, nil
}
