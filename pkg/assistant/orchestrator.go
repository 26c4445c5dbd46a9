package assistant

import (
	"context"
	"fmt"
	"time"

	"campusbot-be/internal/pkg/logger"
	"campusbot-be/pkg/llm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const logModule = "ASSISTANT"

// Fallback component names, also used as metric labels.
const (
	ComponentDetector   = "language_detector"
	ComponentRefiner    = "query_refiner"
	ComponentRouter     = "router"
	ComponentTranslator = "answer_translator"
)

type TurnInput struct {
	SessionID    string
	Query        string
	LanguageHint string
	History      []llm.Message
}

type TurnResult struct {
	Answer           string
	Route            Route
	Source           string
	DetectedLanguage string
	RefinedQuery     string
	Translated       bool
	// Fallbacks names every component that degraded during the turn.
	Fallbacks []string
	Stages    []Stage
	Duration  time.Duration
}

// Pipeline groups the components of a turn.
type Pipeline struct {
	Detector   *LanguageDetector
	Refiner    *QueryRefiner
	Router     *Router
	Tools      []Tool
	Translator *AnswerTranslator
}

type Orchestrator struct {
	pipeline Pipeline
	tools    map[Route]Tool
	logger   logger.ILogger
	observer Observer
	tracer   trace.Tracer
}

// NewOrchestrator requires exactly one tool per route.
func NewOrchestrator(p Pipeline, log logger.ILogger, observer Observer) (*Orchestrator, error) {
	if p.Detector == nil || p.Refiner == nil || p.Router == nil || p.Translator == nil {
		return nil, fmt.Errorf("assistant: pipeline is missing a component")
	}
	tools := make(map[Route]Tool, len(p.Tools))
	for _, t := range p.Tools {
		if _, dup := tools[t.Route()]; dup {
			return nil, fmt.Errorf("assistant: duplicate tool for route %s", t.Route())
		}
		tools[t.Route()] = t
	}
	for _, r := range Routes {
		if _, ok := tools[r]; !ok {
			return nil, fmt.Errorf("assistant: no tool for route %s", r)
		}
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Orchestrator{
		pipeline: p,
		tools:    tools,
		logger:   log,
		observer: observer,
		tracer:   otel.Tracer("campusbot/assistant"),
	}, nil
}

// Run executes one turn. It only fails for an empty query or when no stage
// could produce an answer.
func (o *Orchestrator) Run(ctx context.Context, in TurnInput) (*TurnResult, error) {
	started := time.Now()

	state, err := NewTurnState(in.Query, in.History)
	if err != nil {
		return nil, err
	}

	ctx, span := o.tracer.Start(ctx, "assistant.turn", trace.WithAttributes(attribute.String("session.id", in.SessionID)))
	defer span.End()

	fsm := newMachine()
	result := &TurnResult{}
	fields := func(stage Stage, extra map[string]interface{}) map[string]interface{} {
		d := map[string]interface{}{"session_id": in.SessionID, "stage": string(stage)}
		for k, v := range extra {
			d[k] = v
		}
		return d
	}
	fallback := func(component string, stage Stage, cause error) {
		result.Fallbacks = append(result.Fallbacks, component)
		o.observer.Fallback(component)
		o.logger.Warn(logModule, "Stage degraded to fallback", fields(stage, map[string]interface{}{
			"component": component,
			"error":     cause.Error(),
		}))
	}

	// Language detection
	stageCtx, stageSpan := o.tracer.Start(ctx, "assistant.detect_language")
	detection := o.pipeline.Detector.Detect(stageCtx, state.OriginalQuery(), in.LanguageHint)
	stageSpan.SetAttributes(attribute.String("language", detection.Language), attribute.String("language.source", detection.Source))
	endSpan(stageSpan, detection.Err)
	if detection.Err != nil {
		fallback(ComponentDetector, StageLanguageDetected, detection.Err)
	}
	if err := o.step(fsm, StageLanguageDetected, state.SetDetectedLanguage(detection.Language)); err != nil {
		return nil, o.fail(span, err)
	}

	// Refinement
	stageCtx, stageSpan = o.tracer.Start(ctx, "assistant.refine_query")
	refinement := o.pipeline.Refiner.Refine(stageCtx, state.OriginalQuery(), state.DetectedLanguage(), state.History())
	stageSpan.SetAttributes(attribute.Bool("greeting_passthrough", refinement.Passthrough))
	endSpan(stageSpan, refinement.Err)
	if refinement.Err != nil {
		fallback(ComponentRefiner, StageRefined, refinement.Err)
	}
	if err := o.step(fsm, StageRefined, state.SetRefinedQuery(refinement.Query)); err != nil {
		return nil, o.fail(span, err)
	}

	// Routing
	stageCtx, stageSpan = o.tracer.Start(ctx, "assistant.route_query")
	decision := o.pipeline.Router.Route(stageCtx, state.RefinedQuery())
	stageSpan.SetAttributes(attribute.String("route", string(decision.Route)))
	endSpan(stageSpan, decision.Err)
	if decision.Err != nil {
		fallback(ComponentRouter, StageRouted, decision.Err)
	}
	if err := o.step(fsm, StageRouted, state.SetRoute(decision.Route)); err != nil {
		return nil, o.fail(span, err)
	}
	o.logger.Info(logModule, "Query routed", fields(StageRouted, map[string]interface{}{
		"language":      state.DetectedLanguage(),
		"refined_query": state.RefinedQuery(),
		"route":         string(state.Route()),
	}))

	// Tool execution
	tool := o.tools[state.Route()]
	stageCtx, stageSpan = o.tracer.Start(ctx, "assistant.tool."+string(state.Route()))
	toolResult := tool.Execute(stageCtx, ToolRequest{RefinedQuery: state.RefinedQuery(), History: state.History()})
	if toolResult.Gate != "" {
		stageSpan.SetAttributes(attribute.String("retrieval.gate", toolResult.Gate))
		o.observer.RetrievalGate(toolResult.Gate)
	}
	endSpan(stageSpan, toolResult.Err)
	if toolResult.Err != nil {
		fallback(string(state.Route()), StageToolExecuted, toolResult.Err)
	}
	if err := o.step(fsm, StageToolExecuted, state.SetAnswer(toolResult.Answer)); err != nil {
		return nil, o.fail(span, err)
	}

	// Back-translation
	if o.pipeline.Translator.Needed(state.DetectedLanguage()) {
		stageCtx, stageSpan = o.tracer.Start(ctx, "assistant.translate_answer")
		translation := o.pipeline.Translator.Translate(stageCtx, state.Answer(), state.DetectedLanguage())
		endSpan(stageSpan, translation.Err)

		var stepErr error
		if translation.Err != nil {
			fallback(ComponentTranslator, StageTranslated, translation.Err)
		} else if translation.Translated {
			stepErr = state.ReplaceAnswer(translation.Answer)
		}
		if err := o.step(fsm, StageTranslated, stepErr); err != nil {
			return nil, o.fail(span, err)
		}
	}

	if err := fsm.advance(StageDone); err != nil {
		return nil, o.fail(span, err)
	}

	result.Answer = state.Answer()
	result.Route = state.Route()
	result.Source = state.Route().Source()
	result.DetectedLanguage = state.DetectedLanguage()
	result.RefinedQuery = state.RefinedQuery()
	result.Translated = state.Translated()
	result.Stages = fsm.path()
	result.Duration = time.Since(started)

	o.observer.TurnCompleted(result.Route, result.Duration)
	o.logger.Info(logModule, "Turn completed", fields(StageDone, map[string]interface{}{
		"route":       string(result.Route),
		"translated":  result.Translated,
		"fallbacks":   result.Fallbacks,
		"duration_ms": result.Duration.Milliseconds(),
	}))

	return result, nil
}

// step applies a state write and, if it succeeded, moves the machine on.
func (o *Orchestrator) step(m *machine, to Stage, writeErr error) error {
	if writeErr != nil {
		return fmt.Errorf("%s: %w", to, writeErr)
	}
	return m.advance(to)
}

func (o *Orchestrator) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	o.logger.Error(logModule, "Turn failed", map[string]interface{}{"error": err.Error()})
	return err
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
