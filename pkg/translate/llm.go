package translate

import (
	"context"
	"fmt"
	"strings"

	"campusbot-be/pkg/llm"
)

const detectPrompt = `Identify the language of the text below. Reply with only its ISO 639-1 code (for example "en", "hi", "es") and nothing else.

Text:
%s`

const translatePrompt = `Translate the text below into the language with code "%s". Preserve names, numbers, email addresses and line breaks. Reply with only the translation.

Text:
%s`

// LLMClient uses a chat model for detection and translation when no
// translation API key is available.
type LLMClient struct {
	provider llm.LLMProvider
}

var _ Client = &LLMClient{}

func NewLLMClient(provider llm.LLMProvider) *LLMClient {
	return &LLMClient{provider: provider}
}

func (c *LLMClient) Detect(ctx context.Context, text string) (string, error) {
	out, err := c.provider.Generate(ctx, fmt.Sprintf(detectPrompt, text), llm.WithTemperature(0), llm.WithMaxTokens(8))
	if err != nil {
		return "", fmt.Errorf("llm detect: %w", err)
	}

	code := strings.Trim(strings.ToLower(strings.TrimSpace(out)), `"'.`)
	normalized, err := NormalizeCode(code)
	if err != nil {
		return "", fmt.Errorf("llm detect: %w", err)
	}
	return normalized, nil
}

func (c *LLMClient) Translate(ctx context.Context, text, target string) (string, error) {
	out, err := c.provider.Generate(ctx, fmt.Sprintf(translatePrompt, target, text), llm.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("llm translate: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("llm translate: empty output")
	}
	return out, nil
}
