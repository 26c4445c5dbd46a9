// Package assistant runs one conversational turn: detect the language, refine
// the query, route it to a single tool, translate the answer back.
package assistant

import (
	"errors"
	"fmt"
	"strings"

	"campusbot-be/pkg/llm"
)

var (
	ErrEmptyQuery      = errors.New("query must not be empty")
	ErrStateAlreadySet = errors.New("turn state field already set")
	ErrNoAnswer        = errors.New("turn finished without an answer")
)

// Route is the capability domain a refined query is sent to.
type Route string

const (
	DocumentRetrieval Route = "DocumentRetrieval"
	StructuredQuery   Route = "StructuredQuery"
	ContactLookup     Route = "ContactLookup"
	Conversation      Route = "Conversation"
)

// Routes lists every route in tie-break priority order.
var Routes = []Route{ContactLookup, StructuredQuery, DocumentRetrieval, Conversation}

var routeSources = map[Route]string{
	DocumentRetrieval: "RAG",
	StructuredQuery:   "SQL",
	ContactLookup:     "External Help",
	Conversation:      "General",
}

// Source is the wire name returned to clients.
func (r Route) Source() string {
	return routeSources[r]
}

func (r Route) Valid() bool {
	_, ok := routeSources[r]
	return ok
}

// RouteFromSource maps a wire name back to its route. Matching is exact.
func RouteFromSource(source string) (Route, bool) {
	for r, s := range routeSources {
		if s == source {
			return r, true
		}
	}
	return "", false
}

// TurnState carries one turn through the pipeline. Each field is written by
// exactly one stage; the answer may be rewritten once by translation.
type TurnState struct {
	originalQuery    string
	detectedLanguage string
	refinedQuery     string
	route            Route
	answer           string
	translated       bool
	history          []llm.Message
}

func NewTurnState(query string, history []llm.Message) (*TurnState, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	h := make([]llm.Message, len(history))
	copy(h, history)
	return &TurnState{originalQuery: query, history: h}, nil
}

func (s *TurnState) OriginalQuery() string    { return s.originalQuery }
func (s *TurnState) DetectedLanguage() string { return s.detectedLanguage }
func (s *TurnState) RefinedQuery() string     { return s.refinedQuery }
func (s *TurnState) Route() Route             { return s.route }
func (s *TurnState) Answer() string           { return s.answer }
func (s *TurnState) Translated() bool         { return s.translated }

// History returns the session snapshot read at turn start.
func (s *TurnState) History() []llm.Message { return s.history }

func (s *TurnState) SetDetectedLanguage(lang string) error {
	if s.detectedLanguage != "" {
		return fmt.Errorf("detected_language: %w", ErrStateAlreadySet)
	}
	if lang == "" {
		return fmt.Errorf("detected_language must not be empty")
	}
	s.detectedLanguage = lang
	return nil
}

func (s *TurnState) SetRefinedQuery(q string) error {
	if s.refinedQuery != "" {
		return fmt.Errorf("refined_query: %w", ErrStateAlreadySet)
	}
	if strings.TrimSpace(q) == "" {
		return fmt.Errorf("refined_query must not be empty")
	}
	s.refinedQuery = q
	return nil
}

func (s *TurnState) SetRoute(r Route) error {
	if s.route != "" {
		return fmt.Errorf("route: %w", ErrStateAlreadySet)
	}
	if !r.Valid() {
		return fmt.Errorf("unknown route %q", r)
	}
	s.route = r
	return nil
}

// SetAnswer records the tool's answer.
func (s *TurnState) SetAnswer(answer string) error {
	if s.answer != "" {
		return fmt.Errorf("answer: %w", ErrStateAlreadySet)
	}
	if strings.TrimSpace(answer) == "" {
		return ErrNoAnswer
	}
	s.answer = answer
	return nil
}

// ReplaceAnswer records the back-translated answer. Allowed once, after SetAnswer.
func (s *TurnState) ReplaceAnswer(answer string) error {
	if s.answer == "" {
		return ErrNoAnswer
	}
	if s.translated {
		return fmt.Errorf("translated answer: %w", ErrStateAlreadySet)
	}
	if strings.TrimSpace(answer) == "" {
		return ErrNoAnswer
	}
	s.answer = answer
	s.translated = true
	return nil
}
