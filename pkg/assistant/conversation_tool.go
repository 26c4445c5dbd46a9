package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campusbot-be/pkg/llm"
)

type ConversationTool struct {
	provider llm.LLMProvider
	timeout  time.Duration
}

var _ Tool = (*ConversationTool)(nil)

func NewConversationTool(provider llm.LLMProvider, timeout time.Duration) *ConversationTool {
	return &ConversationTool{provider: provider, timeout: timeout}
}

func (t *ConversationTool) Route() Route { return Conversation }

func (t *ConversationTool) Execute(ctx context.Context, req ToolRequest) ToolResult {
	ctx, cancel := withTimeout(ctx, t.timeout)
	defer cancel()

	out, err := t.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: conversationSystemPrompt},
		{Role: llm.RoleUser, Content: req.RefinedQuery},
	})
	if err != nil {
		return ToolResult{Answer: conversationError, Err: fmt.Errorf("conversation: %w", err)}
	}
	answer := strings.TrimSpace(out)
	if answer == "" {
		return ToolResult{Answer: conversationError, Err: fmt.Errorf("conversation: empty output")}
	}
	return ToolResult{Answer: answer}
}
