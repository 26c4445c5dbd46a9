package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campusbot-be/pkg/llm"
)

// Match is one nearest-neighbour hit. Score is a distance unless the index
// is configured as similarity-scored.
type Match struct {
	Content   string
	Source    string
	Score     float64
	Embedding []float32
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type VectorIndex interface {
	Search(ctx context.Context, vector []float32, k int) ([]Match, error)
}

type RetrievalOptions struct {
	Threshold float64
	ProbeK    int
	TopK      int
	FetchK    int
	UseMMR    bool
	MMRLambda float64
	// ScoreIsSimilarity inverts the gate for indexes where higher is better.
	ScoreIsSimilarity bool

	SearchTimeout     time.Duration
	GenerationTimeout time.Duration
}

type DocumentRetrievalTool struct {
	embedder Embedder
	index    VectorIndex
	provider llm.LLMProvider
	opts     RetrievalOptions
}

var _ Tool = (*DocumentRetrievalTool)(nil)

func NewDocumentRetrievalTool(embedder Embedder, index VectorIndex, provider llm.LLMProvider, opts RetrievalOptions) *DocumentRetrievalTool {
	if opts.ProbeK <= 0 {
		opts.ProbeK = 1
	}
	if opts.TopK <= 0 {
		opts.TopK = 4
	}
	if opts.FetchK < opts.TopK {
		opts.FetchK = opts.TopK
	}
	return &DocumentRetrievalTool{embedder: embedder, index: index, provider: provider, opts: opts}
}

func (t *DocumentRetrievalTool) Route() Route { return DocumentRetrieval }

// Execute answers only from retrieved content. Every failure, and any best
// match beyond the threshold, yields RefusalSentence.
func (t *DocumentRetrievalTool) Execute(ctx context.Context, req ToolRequest) ToolResult {
	refuse := func(gate string, err error) ToolResult {
		return ToolResult{Answer: RefusalSentence, Gate: gate, Err: err}
	}

	vector, probe, err := t.probe(ctx, req.RefinedQuery)
	if err != nil {
		return refuse(GateError, err)
	}
	if len(probe) == 0 {
		return refuse(GateNoMatch, nil)
	}
	if !t.passes(probe[0].Score) {
		return refuse(GateBelowThreshold, nil)
	}

	docs, err := t.fetch(ctx, vector)
	if err != nil {
		return refuse(GateError, err)
	}
	if len(docs) == 0 {
		return refuse(GateNoMatch, nil)
	}

	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = d.Content
	}

	genCtx, cancel := withTimeout(ctx, t.opts.GenerationTimeout)
	defer cancel()

	out, err := t.provider.Generate(genCtx, fmt.Sprintf(ragPrompt, strings.Join(parts, "\n\n"), req.RefinedQuery), llm.WithTemperature(0))
	if err != nil {
		return refuse(GatePassed, fmt.Errorf("synthesize answer: %w", err))
	}

	answer := strings.TrimSpace(out)
	if answer == "" || isRefusal(answer) {
		return refuse(GatePassed, nil)
	}
	return ToolResult{Answer: answer, Gate: GatePassed}
}

func (t *DocumentRetrievalTool) probe(ctx context.Context, query string) ([]float32, []Match, error) {
	ctx, cancel := withTimeout(ctx, t.opts.SearchTimeout)
	defer cancel()

	vector, err := t.embedder.Embed(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("embed query: %w", err)
	}
	matches, err := t.index.Search(ctx, vector, t.opts.ProbeK)
	if err != nil {
		return nil, nil, fmt.Errorf("probe search: %w", err)
	}
	return vector, matches, nil
}

func (t *DocumentRetrievalTool) fetch(ctx context.Context, vector []float32) ([]Match, error) {
	ctx, cancel := withTimeout(ctx, t.opts.SearchTimeout)
	defer cancel()

	if !t.opts.UseMMR {
		matches, err := t.index.Search(ctx, vector, t.opts.TopK)
		if err != nil {
			return nil, fmt.Errorf("top-k search: %w", err)
		}
		return matches, nil
	}

	candidates, err := t.index.Search(ctx, vector, t.opts.FetchK)
	if err != nil {
		return nil, fmt.Errorf("mmr candidate search: %w", err)
	}
	return maximalMarginalRelevance(vector, candidates, t.opts.TopK, t.opts.MMRLambda), nil
}

func (t *DocumentRetrievalTool) passes(score float64) bool {
	if t.opts.ScoreIsSimilarity {
		return score >= t.opts.Threshold
	}
	return score <= t.opts.Threshold
}

func isRefusal(answer string) bool {
	a := strings.ToLower(answer)
	return strings.Contains(a, strings.ToLower(strings.TrimSuffix(RefusalSentence, "."))) ||
		strings.Contains(a, "don't have enough information") ||
		strings.Contains(a, "do not have enough information")
}
