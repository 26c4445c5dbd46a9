package assistant

import (
	"context"
	"time"
)

// Gate outcomes reported for document retrieval.
const (
	GatePassed         = "passed"
	GateBelowThreshold = "below_threshold"
	GateNoMatch        = "no_match"
	GateError          = "error"
)

// Observer receives turn-level signals, typically for metrics.
type Observer interface {
	TurnCompleted(route Route, elapsed time.Duration)
	Fallback(component string)
	RetrievalGate(outcome string)
}

type NopObserver struct{}

func (NopObserver) TurnCompleted(Route, time.Duration) {}
func (NopObserver) Fallback(string)                    {}
func (NopObserver) RetrievalGate(string)               {}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
