package factory

import (
	"testing"

	"campusbot-be/internal/config"
	"campusbot-be/pkg/llm/gemini"
	"campusbot-be/pkg/llm/ollama"
	"campusbot-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(config.AIConfig{LLMProvider: "ollama", LLMModel: "llama3"})
	require.NoError(t, err)
	o, ok := p.(*ollama.OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", o.BaseURL)

	p, err = NewLLMProvider(config.AIConfig{LLMProvider: "gemini", GeminiKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &gemini.GeminiProvider{}, p)

	p, err = NewLLMProvider(config.AIConfig{LLMProvider: "openai", OpenAIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &openai.OpenAIProvider{}, p)

	_, err = NewLLMProvider(config.AIConfig{LLMProvider: "bard"})
	assert.Error(t, err)
}
