package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campusbot-be/pkg/eventstore"
	"campusbot-be/pkg/llm"
)

type StructuredQueryOptions struct {
	MaxRows           int
	QueryTimeout      time.Duration
	GenerationTimeout time.Duration
	// Now supplies today's date for relative questions. Defaults to time.Now.
	Now func() time.Time
}

type StructuredQueryTool struct {
	store    eventstore.Store
	provider llm.LLMProvider
	opts     StructuredQueryOptions
}

var _ Tool = (*StructuredQueryTool)(nil)

func NewStructuredQueryTool(store eventstore.Store, provider llm.LLMProvider, opts StructuredQueryOptions) *StructuredQueryTool {
	if opts.MaxRows <= 0 {
		opts.MaxRows = 50
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &StructuredQueryTool{store: store, provider: provider, opts: opts}
}

func (t *StructuredQueryTool) Route() Route { return StructuredQuery }

// Execute generates SQL, runs it read-only and summarizes the rows. Failures
// and empty results produce a fixed "no data found" answer.
func (t *StructuredQueryTool) Execute(ctx context.Context, req ToolRequest) ToolResult {
	result, err := t.run(ctx, req.RefinedQuery)
	if err != nil {
		return ToolResult{Answer: noEventsAnswer, Err: err}
	}
	if result.Empty() {
		return ToolResult{Answer: noEventsAnswer}
	}

	genCtx, cancel := withTimeout(ctx, t.opts.GenerationTimeout)
	defer cancel()

	out, err := t.provider.Generate(genCtx, fmt.Sprintf(sqlSummaryPrompt, result.String(), req.RefinedQuery), llm.WithTemperature(0))
	if err != nil || strings.TrimSpace(out) == "" {
		if err == nil {
			err = fmt.Errorf("empty summary")
		}
		return ToolResult{Answer: listRows(result), Err: fmt.Errorf("summarize rows: %w", err)}
	}
	return ToolResult{Answer: strings.TrimSpace(out)}
}

func (t *StructuredQueryTool) run(ctx context.Context, question string) (*eventstore.Result, error) {
	queryCtx, cancelSchema := withTimeout(ctx, t.opts.QueryTimeout)
	schema, err := t.store.SchemaDescription(queryCtx)
	cancelSchema()
	if err != nil {
		return nil, fmt.Errorf("describe schema: %w", err)
	}

	dialect := t.store.Dialect()
	prompt := fmt.Sprintf(sqlGenerationPrompt, dialect, dialect, t.opts.MaxRows,
		t.opts.Now().Format("2006-01-02"), schema, question)

	genCtx, cancelGen := withTimeout(ctx, t.opts.GenerationTimeout)
	generated, err := t.provider.Generate(genCtx, prompt, llm.WithTemperature(0))
	cancelGen()
	if err != nil {
		return nil, fmt.Errorf("generate sql: %w", err)
	}

	execCtx, cancelExec := withTimeout(ctx, t.opts.QueryTimeout)
	defer cancelExec()

	result, err := t.store.Query(execCtx, generated)
	if err != nil {
		return nil, fmt.Errorf("run sql %q: %w", truncate(generated, 200), err)
	}
	return result, nil
}

// listRows renders rows verbatim when the summary step is unavailable.
func listRows(r *eventstore.Result) string {
	var sb strings.Builder
	sb.WriteString("Here is what I found in the college events database:")
	for _, row := range r.Rows {
		sb.WriteString("\n- ")
		pairs := make([]string, 0, len(row))
		for i, v := range row {
			pairs = append(pairs, fmt.Sprintf("%s: %s", r.Columns[i], v))
		}
		sb.WriteString(strings.Join(pairs, ", "))
	}
	return sb.String()
}
