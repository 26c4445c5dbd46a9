package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSplitsSystemInstruction(t *testing.T) {
	var captured geminiRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hello "},{"text":"there"}]}}]}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider("secret", "")
	p.BaseURL = srv.URL

	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "You are CampusBot."},
		{Role: llm.RoleUser, Content: "hi"},
		{Role: llm.RoleAssistant, Content: "hello"},
		{Role: llm.RoleUser, Content: "when is the fest?"},
	}, llm.WithJSONSchema("x", json.RawMessage(`{}`)))

	require.NoError(t, err)
	assert.Equal(t, "Hello there", out)
	require.NotNil(t, captured.SystemInstruction)
	assert.Equal(t, "You are CampusBot.", captured.SystemInstruction.Parts[0].Text)
	require.Len(t, captured.Contents, 3)
	assert.Equal(t, "model", captured.Contents[1].Role)
	assert.Equal(t, "application/json", captured.GenerationConfig.ResponseMimeType)
}

func TestChatNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider("k", "gemini-1.5-flash")
	p.BaseURL = srv.URL

	_, err := p.Generate(context.Background(), "hi")
	assert.Error(t, err)
}

func TestChatFoldsLeadingModelTurnsIntoUserTurn(t *testing.T) {
	var captured geminiRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Which workshop is in Hall 3?"}]}}]}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider("k", "gemini-1.5-flash")
	p.BaseURL = srv.URL

	_, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleAssistant, Content: "Workshop 1, Hall 2\nWorkshop 3, Hall 3"},
		{Role: llm.RoleUser, Content: "which one of those is in Hall 3?"},
	})

	require.NoError(t, err)
	require.Len(t, captured.Contents, 1)
	assert.Equal(t, "user", captured.Contents[0].Role)
	require.Len(t, captured.Contents[0].Parts, 2)
	assert.Contains(t, captured.Contents[0].Parts[0].Text, "Workshop 3, Hall 3")
	assert.Equal(t, "which one of those is in Hall 3?", captured.Contents[0].Parts[1].Text)
}

func TestChatRejectsModelOnlyHistory(t *testing.T) {
	p := NewGeminiProvider("k", "gemini-1.5-flash")
	p.BaseURL = "http://127.0.0.1:1"

	_, err := p.Chat(context.Background(), []llm.Message{{Role: llm.RoleAssistant, Content: "hello"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user message is required")
}
