package assistant

import (
	"context"

	"campusbot-be/pkg/llm"
)

type ToolRequest struct {
	RefinedQuery string
	History      []llm.Message
}

type ToolResult struct {
	Answer string
	// Gate is the retrieval gate outcome; empty for other tools.
	Gate string
	// Err is set when the tool degraded to its fixed fallback answer.
	Err error
}

// Tool answers queries for exactly one route. Execute never fails; degraded
// paths still produce an answer and report the cause in ToolResult.Err.
type Tool interface {
	Route() Route
	Execute(ctx context.Context, req ToolRequest) ToolResult
}
