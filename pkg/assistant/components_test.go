package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"campusbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestLanguageDetector(t *testing.T) {
	t.Run("hint skips detection", func(t *testing.T) {
		fd := &fakeDetector{lang: "es"}
		d := NewLanguageDetector(fd, "en", time.Second)

		got := d.Detect(context.Background(), "¿Cuándo es?", "HI")
		assert.Equal(t, "hi", got.Language)
		assert.Equal(t, DetectedFromHint, got.Source)
		assert.Zero(t, fd.calls)
	})

	t.Run("malformed hint falls through to detection", func(t *testing.T) {
		fd := &fakeDetector{lang: "es"}
		d := NewLanguageDetector(fd, "en", time.Second)

		got := d.Detect(context.Background(), "¿Cuándo es?", "not a tag")
		assert.Equal(t, "es", got.Language)
		assert.Equal(t, DetectedFromService, got.Source)
	})

	t.Run("empty query defaults", func(t *testing.T) {
		fd := &fakeDetector{lang: "es"}
		d := NewLanguageDetector(fd, "en", time.Second)

		got := d.Detect(context.Background(), "   ", "")
		assert.Equal(t, "en", got.Language)
		assert.NoError(t, got.Err)
		assert.Zero(t, fd.calls)
	})

	t.Run("service failure defaults", func(t *testing.T) {
		d := NewLanguageDetector(&fakeDetector{err: errBackend}, "en", time.Second)

		got := d.Detect(context.Background(), "bonjour", "")
		assert.Equal(t, "en", got.Language)
		assert.Equal(t, DetectedFromDefault, got.Source)
		assert.ErrorIs(t, got.Err, errBackend)
	})
}

func TestQueryRefinerGreetingPassthrough(t *testing.T) {
	provider := newFakeLLM()
	r := NewQueryRefiner(provider, time.Second, 6, 1000)

	for _, q := range []string{"hello", "  Thank You ", "NAMASTE", "hola"} {
		got := r.Refine(context.Background(), q, "en", nil)
		assert.Equal(t, strings.TrimSpace(q), got.Query)
		assert.True(t, got.Passthrough)
	}
	assert.Zero(t, provider.callCount())
	assert.False(t, IsGreeting("Hello there"))
}

func TestQueryRefinerUsesHistory(t *testing.T) {
	provider := newFakeLLM(llmRule{marker: "Refined English Query", reply: "Refined English Query: \"Where is the Tech Fest 2025 held?\"\n"})
	r := NewQueryRefiner(provider, time.Second, 6, 1000)

	history := []llm.Message{
		{Role: llm.RoleUser, Content: "What events are on October 10th?"},
		{Role: llm.RoleAssistant, Content: "Tech Fest 2025 and CodeClash Coding Competition."},
	}
	got := r.Refine(context.Background(), "where is the first one?", "en", history)

	require.NoError(t, got.Err)
	assert.Equal(t, "Where is the Tech Fest 2025 held?", got.Query)
	assert.Equal(t, 1, provider.callsContaining("Tech Fest 2025 and CodeClash"))
}

func TestQueryRefinerKeepsOversizedPrecedingAnswer(t *testing.T) {
	provider := newFakeLLM(llmRule{marker: "Refined English Query", reply: "Refined English Query: Which workshop this week is in Hall 3?"})
	r := NewQueryRefiner(provider, time.Second, 6, 200)

	var listing strings.Builder
	for i := 1; i <= 50; i++ {
		fmt.Fprintf(&listing, "Workshop %d, Hall %d, 2025-10-%02d 10:00\n", i, i%5+1, i%28+1)
	}
	history := []llm.Message{
		{Role: llm.RoleUser, Content: "List every workshop this month"},
		{Role: llm.RoleAssistant, Content: listing.String()},
	}
	got := r.Refine(context.Background(), "which one of those is in Hall 3?", "en", history)

	require.NoError(t, got.Err)
	assert.Equal(t, "Which workshop this week is in Hall 3?", got.Query)
	assert.Equal(t, 1, provider.callsContaining("Workshop 3,"))
}

func TestQueryRefinerFallsBackToRawQuery(t *testing.T) {
	for name, rule := range map[string]llmRule{
		"error": {marker: "Refined", err: errBackend},
		"empty": {marker: "Refined", reply: "  \"\" "},
	} {
		t.Run(name, func(t *testing.T) {
			r := NewQueryRefiner(newFakeLLM(rule), time.Second, 6, 1000)
			got := r.Refine(context.Background(), "fee deadline?", "en", nil)
			assert.Equal(t, "fee deadline?", got.Query)
			assert.Error(t, got.Err)
		})
	}
}

func TestRouteQuerySchemaIsClosedEnum(t *testing.T) {
	schema := string(RouteQuerySchema())
	require.True(t, json.Valid([]byte(schema)))

	enum := gjson.Get(schema, "properties.datasource.enum").Array()
	var values []string
	for _, v := range enum {
		values = append(values, v.String())
	}
	assert.ElementsMatch(t, []string{"RAG", "SQL", "External Help", "General"}, values)
	assert.Equal(t, "datasource", gjson.Get(schema, "required.0").String())
}

func TestRouter(t *testing.T) {
	tests := []struct {
		name    string
		rule    llmRule
		want    Route
		wantErr bool
	}{
		{name: "rag", rule: llmRule{marker: "Question:", reply: `{"datasource": "RAG"}`}, want: DocumentRetrieval},
		{name: "fenced sql", rule: llmRule{marker: "Question:", reply: "```json\n{\"datasource\":\"SQL\"}\n```"}, want: StructuredQuery},
		{name: "external help", rule: llmRule{marker: "Question:", reply: `{"datasource":"External Help"}`}, want: ContactLookup},
		{name: "out of set", rule: llmRule{marker: "Question:", reply: `{"datasource":"Web Search"}`}, want: Conversation, wantErr: true},
		{name: "lowercase", rule: llmRule{marker: "Question:", reply: `{"datasource":"rag"}`}, want: Conversation, wantErr: true},
		{name: "padded", rule: llmRule{marker: "Question:", reply: `{"datasource":" External Help "}`}, want: Conversation, wantErr: true},
		{name: "prose", rule: llmRule{marker: "Question:", reply: `I think RAG fits best`}, want: Conversation, wantErr: true},
		{name: "error", rule: llmRule{marker: "Question:", err: errBackend}, want: Conversation, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newFakeLLM(tt.rule)
			got := NewRouter(provider, time.Second).Route(context.Background(), "some question")
			assert.Equal(t, tt.want, got.Route)
			if tt.wantErr {
				assert.Error(t, got.Err)
			} else {
				assert.NoError(t, got.Err)
			}
			require.Len(t, provider.opts, 1)
			assert.NotEmpty(t, provider.opts[0].JSONSchema)
			assert.Equal(t, 0.0, provider.opts[0].TemperatureOr(1))
		})
	}
}

func TestRouterTimeoutFallsBackToConversation(t *testing.T) {
	slow := &blockingLLM{}
	got := NewRouter(slow, 10*time.Millisecond).Route(context.Background(), "anything")
	assert.Equal(t, Conversation, got.Route)
	assert.ErrorIs(t, got.Err, context.DeadlineExceeded)
}

type blockingLLM struct{}

func (blockingLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (b blockingLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return b.Chat(ctx, nil, options...)
}

func TestAnswerTranslator(t *testing.T) {
	ft := &fakeTranslator{out: map[string]string{"hi": "शुल्क की अंतिम तिथि 31 मार्च है।"}}
	tr := NewAnswerTranslator(ft, "en", time.Second)

	t.Run("identity for canonical", func(t *testing.T) {
		for _, lang := range []string{"en", "en-GB"} {
			got := tr.Translate(context.Background(), "The fee deadline is March 31.", lang)
			assert.Equal(t, "The fee deadline is March 31.", got.Answer)
			assert.False(t, got.Translated)
		}
		assert.Zero(t, ft.calls)
	})

	t.Run("translates other languages", func(t *testing.T) {
		got := tr.Translate(context.Background(), "The fee deadline is March 31.", "hi")
		assert.True(t, got.Translated)
		assert.Equal(t, "शुल्क की अंतिम तिथि 31 मार्च है।", got.Answer)
	})

	t.Run("failure keeps answer", func(t *testing.T) {
		failing := NewAnswerTranslator(&fakeTranslator{err: errBackend}, "en", time.Second)
		got := failing.Translate(context.Background(), "The fee deadline is March 31.", "hi")
		assert.False(t, got.Translated)
		assert.Equal(t, "The fee deadline is March 31.", got.Answer)
		assert.ErrorIs(t, got.Err, errBackend)
	})
}
