package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"

	"campusbot-be/pkg/eventstore"
	"campusbot-be/pkg/llm"
)

var errBackend = errors.New("backend unavailable")

// fakeLLM answers by the first rule whose marker appears in the prompt.
type fakeLLM struct {
	mu    sync.Mutex
	rules []llmRule
	calls []string
	opts  []llm.Options
}

type llmRule struct {
	marker string
	reply  string
	err    error
}

func newFakeLLM(rules ...llmRule) *fakeLLM {
	return &fakeLLM{rules: rules}
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	var sb strings.Builder
	for _, m := range history {
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	prompt := sb.String()

	f.mu.Lock()
	f.calls = append(f.calls, prompt)
	f.opts = append(f.opts, llm.Apply(llm.Options{}, options...))
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	for _, r := range f.rules {
		if strings.Contains(prompt, r.marker) {
			return r.reply, r.err
		}
	}
	return "", errors.New("fakeLLM: no rule for prompt")
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeLLM) callsContaining(marker string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.Contains(c, marker) {
			n++
		}
	}
	return n
}

type fakeDetector struct {
	lang  string
	err   error
	calls int
}

func (f *fakeDetector) Detect(ctx context.Context, text string) (string, error) {
	f.calls++
	return f.lang, f.err
}

type fakeTranslator struct {
	out   map[string]string
	err   error
	calls int
}

func (f *fakeTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if out, ok := f.out[target]; ok {
		return out, nil
	}
	return text, nil
}

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return f.vector, f.err
}

type fakeIndex struct {
	matches []Match
	err     error
	ks      []int
}

func (f *fakeIndex) Search(ctx context.Context, vector []float32, k int) ([]Match, error) {
	f.ks = append(f.ks, k)
	if f.err != nil {
		return nil, f.err
	}
	if k > len(f.matches) {
		k = len(f.matches)
	}
	return f.matches[:k], nil
}

type fakeStore struct {
	schema     string
	schemaErr  error
	result     *eventstore.Result
	queryErr   error
	queries    []string
	schemaHits int
}

func (f *fakeStore) SchemaDescription(ctx context.Context) (string, error) {
	f.schemaHits++
	return f.schema, f.schemaErr
}

func (f *fakeStore) Query(ctx context.Context, query string) (*eventstore.Result, error) {
	f.queries = append(f.queries, query)
	return f.result, f.queryErr
}

func (f *fakeStore) Dialect() string { return "SQLite" }

func (f *fakeStore) calls() int { return f.schemaHits + len(f.queries) }
