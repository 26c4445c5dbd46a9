package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"campusbot-be/pkg/department"
	"campusbot-be/pkg/llm"

	"github.com/tidwall/gjson"
)

type ContactLookupTool struct {
	directory *department.Directory
	provider  llm.LLMProvider
	timeout   time.Duration
	schema    json.RawMessage
	keywords  string
}

var _ Tool = (*ContactLookupTool)(nil)

func NewContactLookupTool(directory *department.Directory, provider llm.LLMProvider, timeout time.Duration) *ContactLookupTool {
	t := &ContactLookupTool{directory: directory, provider: provider, timeout: timeout}
	if directory != nil {
		keywords := directory.Keywords()
		t.keywords = strings.Join(keywords, ", ")
		t.schema = keywordSchema(append(keywords, department.DefaultKeyword))
	}
	return t
}

// keywordSchema constrains the classifier to the known keywords.
func keywordSchema(allowed []string) json.RawMessage {
	schema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"keyword": map[string]interface{}{
				"type": "string",
				"enum": allowed,
			},
		},
		"required":             []string{"keyword"},
		"additionalProperties": false,
	}
	b, _ := json.Marshal(schema)
	return b
}

func (t *ContactLookupTool) Route() Route { return ContactLookup }

// Execute classifies the query to a department keyword and formats its
// contact details, falling back to the default department.
func (t *ContactLookupTool) Execute(ctx context.Context, req ToolRequest) ToolResult {
	if t.directory == nil {
		return ToolResult{Answer: noContactAnswer, Err: department.ErrNoDefault}
	}

	keyword, err := t.classify(ctx, req.RefinedQuery)
	if err != nil {
		keyword = department.DefaultKeyword
	}

	contact, _ := t.directory.Lookup(keyword)
	return ToolResult{Answer: formatContact(contact), Err: err}
}

func (t *ContactLookupTool) classify(ctx context.Context, query string) (string, error) {
	ctx, cancel := withTimeout(ctx, t.timeout)
	defer cancel()

	out, err := t.provider.Generate(ctx, fmt.Sprintf(contactClassifierPrompt, t.keywords, query),
		llm.WithTemperature(0), llm.WithJSONSchema("department_keyword", t.schema))
	if err != nil {
		return "", fmt.Errorf("classify department: %w", err)
	}

	if obj := extractJSONObject(out); obj != "" && gjson.Valid(obj) {
		if kw := gjson.Get(obj, "keyword"); kw.Exists() {
			return department.NormalizeKeyword(kw.String()), nil
		}
	}
	return department.NormalizeKeyword(out), nil
}

func formatContact(c department.Contact) string {
	orNA := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "N/A"
		}
		return s
	}
	return fmt.Sprintf(contactTemplate, orNA(c.Name), orNA(c.Email), orNA(c.Location))
}
