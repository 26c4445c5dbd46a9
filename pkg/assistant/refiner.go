package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campusbot-be/pkg/llm"
	"campusbot-be/pkg/utils"
)

var greetings = map[string]struct{}{
	"hello":     {},
	"hi":        {},
	"hey":       {},
	"thanks":    {},
	"thank you": {},
	"namaste":   {},
	"hola":      {},
}

// IsGreeting reports whether query is one of the fixed greeting phrases.
func IsGreeting(query string) bool {
	_, ok := greetings[strings.ToLower(strings.TrimSpace(query))]
	return ok
}

type Refinement struct {
	Query       string
	Passthrough bool
	// Err is set when generation failed and the raw query was used.
	Err error
}

type QueryRefiner struct {
	provider      llm.LLMProvider
	timeout       time.Duration
	historyWindow int
	tokenBudget   int
}

func NewQueryRefiner(provider llm.LLMProvider, timeout time.Duration, historyWindow, tokenBudget int) *QueryRefiner {
	return &QueryRefiner{
		provider:      provider,
		timeout:       timeout,
		historyWindow: historyWindow,
		tokenBudget:   tokenBudget,
	}
}

// Refine rewrites query into a single canonical-language search query.
// The result is never empty.
func (r *QueryRefiner) Refine(ctx context.Context, query, language string, history []llm.Message) Refinement {
	if IsGreeting(query) {
		return Refinement{Query: strings.TrimSpace(query), Passthrough: true}
	}

	messages := utils.TrimHistoryToBudget(history, r.historyWindow, r.tokenBudget)
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf(refinePrompt, language, query),
	})

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.provider.Chat(ctx, messages, llm.WithTemperature(0))
	if err != nil {
		return Refinement{Query: query, Err: fmt.Errorf("refine query: %w", err)}
	}

	refined := cleanRefinement(out)
	if refined == "" {
		return Refinement{Query: query, Err: fmt.Errorf("refine query: empty output")}
	}
	return Refinement{Query: refined}
}

func cleanRefinement(out string) string {
	s := strings.TrimSpace(out)
	for _, label := range []string{"Refined English Query:", "Refined Query:"} {
		if strings.HasPrefix(strings.ToLower(s), strings.ToLower(label)) {
			s = strings.TrimSpace(s[len(label):])
		}
	}
	s = strings.Trim(s, "`\"' \n\t")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
