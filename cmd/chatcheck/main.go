// Command chatcheck posts the reference questions to a running server and
// reports which ones were routed and answered as expected.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode"

	"campusbot-be/internal/dto"

	"github.com/fatih/color"
)

type scenario struct {
	name       string
	request    dto.ChatRequest
	wantSource string
	wantText   []string
	wantScript *unicode.RangeTable
}

var scenarios = []scenario{
	{
		name:       "fee deadline",
		request:    dto.ChatRequest{Query: "When is the deadline for semester fee payment?"},
		wantSource: "RAG",
	},
	{
		name:       "events on a date",
		request:    dto.ChatRequest{Query: "What events are happening on October 10th, 2025?"},
		wantSource: "SQL",
		wantText:   []string{"Tech Fest", "CodeClash"},
	},
	{
		name:       "exam results contact",
		request:    dto.ChatRequest{Query: "Who do I talk to about my exam results?"},
		wantSource: "External Help",
		wantText:   []string{"Examinations Department", "exams@examplecollege.edu"},
	},
	{
		name:       "greeting",
		request:    dto.ChatRequest{Query: "Hello there"},
		wantSource: "General",
	},
	{
		name:       "hindi fee question",
		request:    dto.ChatRequest{Query: "सेमेस्टर फीस जमा करने की अंतिम तिथि क्या है?"},
		wantSource: "RAG",
		wantScript: unicode.Devanagari,
	},
}

func sendChat(client *http.Client, baseURL string, req dto.ChatRequest) (*dto.ChatResponse, int, error) {
	body, _ := json.Marshal(req)
	resp, err := client.Post(baseURL+"/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(raw)))
	}

	var out dto.ChatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, resp.StatusCode, err
	}
	return &out, resp.StatusCode, nil
}

func check(s scenario, res *dto.ChatResponse) []string {
	var problems []string
	if res.Source != s.wantSource {
		problems = append(problems, fmt.Sprintf("source %q, want %q", res.Source, s.wantSource))
	}
	for _, text := range s.wantText {
		if !strings.Contains(res.Answer, text) {
			problems = append(problems, fmt.Sprintf("answer does not mention %q", text))
		}
	}
	if s.wantScript != nil && !strings.ContainsFunc(res.Answer, func(r rune) bool { return unicode.Is(s.wantScript, r) }) {
		problems = append(problems, "answer is not in the query's script")
	}
	return problems
}

func main() {
	baseURL := flag.String("url", "http://localhost:8000", "server base URL")
	timeout := flag.Duration("timeout", 2*time.Minute, "per-request timeout")
	flag.Parse()

	client := &http.Client{Timeout: *timeout}
	color.Cyan("🚀 Checking %d scenarios against %s\n", len(scenarios), *baseURL)

	failed := 0
	for i, s := range scenarios {
		color.Yellow("\n[%d] %s: %s", i+1, s.name, s.request.Query)

		res, status, err := sendChat(client, *baseURL, s.request)
		if err != nil {
			color.Red("Failed (status %d): %v", status, err)
			failed++
			continue
		}

		fmt.Printf("source: %s\nanswer: %s\n", res.Source, res.Answer)
		if problems := check(s, res); len(problems) > 0 {
			for _, p := range problems {
				color.Red("✗ %s", p)
			}
			failed++
			continue
		}
		color.Green("✓ ok")
	}

	if failed > 0 {
		color.Red("\n%d of %d scenarios failed", failed, len(scenarios))
		os.Exit(1)
	}
	color.Green("\nAll %d scenarios passed", len(scenarios))
}
