package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"campusbot-be/internal/dto"
	"campusbot-be/internal/pkg/serverutils"
	"campusbot-be/internal/repository/contract"
	"campusbot-be/pkg/assistant"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatService struct {
	chatErr  error
	lastReq  *dto.ChatRequest
	history  []dto.ChatMessageDTO
	cleared  string
	clearErr error
}

func (s *stubChatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	s.lastReq = req
	if s.chatErr != nil {
		return nil, s.chatErr
	}
	sid := req.SessionId
	if sid == "" {
		sid = "generated"
	}
	return &dto.ChatResponse{Answer: "The fee deadline is March 31.", Source: "RAG", SessionId: sid}, nil
}

func (s *stubChatService) History(ctx context.Context, sessionId string) ([]dto.ChatMessageDTO, error) {
	return s.history, nil
}

func (s *stubChatService) Clear(ctx context.Context, sessionId string) error {
	s.cleared = sessionId
	return s.clearErr
}

func newTestApp(svc *stubChatService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewChatController(svc).RegisterRoutes(app, app.Group("/api"))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestChatEndpoints(t *testing.T) {
	for _, path := range []string{"/chat", "/api/chat"} {
		t.Run(path, func(t *testing.T) {
			svc := &stubChatService{}
			status, body := doJSON(t, newTestApp(svc), "POST", path, `{"query":"When is the fee deadline?","session_id":"abc","language":"en"}`)

			assert.Equal(t, 200, status)
			assert.Equal(t, "The fee deadline is March 31.", body["answer"])
			assert.Equal(t, "RAG", body["source"])
			assert.Equal(t, "abc", body["session_id"])
			assert.Equal(t, "en", svc.lastReq.Language)
		})
	}
}

func TestChatValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing query", body: `{"session_id":"abc"}`},
		{name: "query too long", body: fmt.Sprintf(`{"query":%q}`, strings.Repeat("a", 4001))},
		{name: "malformed json", body: `{"query":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubChatService{}
			status, body := doJSON(t, newTestApp(svc), "POST", "/chat", tt.body)

			assert.Equal(t, 400, status)
			assert.Equal(t, false, body["success"])
			assert.Nil(t, svc.lastReq)
		})
	}
}

func TestChatErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "empty query", err: assistant.ErrEmptyQuery, status: 400},
		{name: "session store down", err: fmt.Errorf("load: %w", contract.ErrSessionStoreUnavailable), status: 503},
		{name: "no answer", err: assistant.ErrNoAnswer, status: 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubChatService{chatErr: tt.err}
			status, body := doJSON(t, newTestApp(svc), "POST", "/chat", `{"query":"  "}`)

			assert.Equal(t, tt.status, status)
			assert.Equal(t, float64(tt.status), body["code"])
		})
	}
}

func TestHistoryAndClear(t *testing.T) {
	svc := &stubChatService{history: []dto.ChatMessageDTO{
		{Role: "user", Content: "Hello there"},
		{Role: "assistant", Content: "Hello! How can I help?"},
	}}
	app := newTestApp(svc)

	status, body := doJSON(t, app, "GET", "/api/chat/abc/history", "")
	assert.Equal(t, 200, status)
	data, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 2)

	status, body = doJSON(t, app, "DELETE", "/api/chat/abc", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "abc", svc.cleared)

	svc.clearErr = contract.ErrSessionStoreUnavailable
	status, _ = doJSON(t, app, "DELETE", "/api/chat/abc", "")
	assert.Equal(t, 503, status)
}
