package factory

import (
	"fmt"

	"campusbot-be/internal/config"
	"campusbot-be/pkg/llm"
	"campusbot-be/pkg/llm/gemini"
	"campusbot-be/pkg/llm/ollama"
	"campusbot-be/pkg/llm/openai"
)

func NewLLMProvider(cfg config.AIConfig) (llm.LLMProvider, error) {
	switch cfg.LLMProvider {
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.LLMModel), nil
	case "gemini":
		return gemini.NewGeminiProvider(cfg.GeminiKey, cfg.LLMModel), nil
	case "openai":
		return openai.NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.LLMModel), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
}
