package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"campusbot-be/pkg/llm"

	"github.com/invopop/jsonschema"
	"github.com/tidwall/gjson"
)

// RouteQuery is the structured output the classifier must produce.
type RouteQuery struct {
	Datasource string `json:"datasource" jsonschema:"enum=RAG,enum=SQL,enum=External Help,enum=General,description=The most appropriate datasource for the user query"`
}

var (
	routeSchemaOnce sync.Once
	routeSchema     json.RawMessage
)

// RouteQuerySchema returns the JSON schema of RouteQuery.
func RouteQuerySchema() json.RawMessage {
	routeSchemaOnce.Do(func() {
		routeSchema = reflectSchema(&RouteQuery{})
	})
	return routeSchema
}

func reflectSchema(v interface{}) json.RawMessage {
	r := &jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true}
	s := r.Reflect(v)
	s.Version = ""
	b, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Sprintf("reflect schema: %v", err))
	}
	return b
}

type RouteDecision struct {
	Route Route
	Raw   string
	// Err is set when classification failed and Conversation was chosen.
	Err error
}

type Router struct {
	provider llm.LLMProvider
	timeout  time.Duration
}

func NewRouter(provider llm.LLMProvider, timeout time.Duration) *Router {
	return &Router{provider: provider, timeout: timeout}
}

// Route classifies the refined query. Errors, timeouts and values outside the
// enumeration all yield Conversation.
func (r *Router) Route(ctx context.Context, refinedQuery string) RouteDecision {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: routerSystemPrompt},
		{Role: llm.RoleUser, Content: "Question: " + refinedQuery},
	}, llm.WithTemperature(0), llm.WithJSONSchema("route_query", RouteQuerySchema()))
	if err != nil {
		return RouteDecision{Route: Conversation, Err: fmt.Errorf("route query: %w", err)}
	}

	route, err := parseRoute(out)
	if err != nil {
		return RouteDecision{Route: Conversation, Raw: out, Err: err}
	}
	return RouteDecision{Route: route, Raw: out}
}

func parseRoute(out string) (Route, error) {
	obj := extractJSONObject(out)
	if obj == "" || !gjson.Valid(obj) {
		return "", fmt.Errorf("route query: output is not JSON: %q", truncate(out, 120))
	}
	ds := gjson.Get(obj, "datasource")
	if !ds.Exists() {
		return "", fmt.Errorf("route query: missing datasource in %q", truncate(out, 120))
	}
	route, ok := RouteFromSource(ds.String())
	if !ok {
		return "", fmt.Errorf("route query: invalid datasource %q", ds.String())
	}
	return route, nil
}

// extractJSONObject strips markdown fences and surrounding prose.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
