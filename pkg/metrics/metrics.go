package metrics

import (
	"net/http"
	"time"

	"campusbot-be/pkg/assistant"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder exports turn metrics. It satisfies assistant.Observer.
type Recorder struct {
	registry *prometheus.Registry

	turns         *prometheus.CounterVec
	turnDuration  *prometheus.HistogramVec
	fallbacks     *prometheus.CounterVec
	retrievalGate *prometheus.CounterVec
}

var _ assistant.Observer = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campusbot_turns_total",
			Help: "Completed chat turns by route",
		}, []string{"route"}),
		turnDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "campusbot_turn_duration_seconds",
			Help:    "End-to-end turn latency by route",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60, 120},
		}, []string{"route"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campusbot_fallbacks_total",
			Help: "Stages that degraded to their fallback",
		}, []string{"component"}),
		retrievalGate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campusbot_retrieval_gate_total",
			Help: "Relevance gate outcomes of document retrieval (passed/below_threshold/no_match/error)",
		}, []string{"outcome"}),
	}

	r.registry.MustRegister(
		r.turns,
		r.turnDuration,
		r.fallbacks,
		r.retrievalGate,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) TurnCompleted(route assistant.Route, elapsed time.Duration) {
	label := route.Source()
	r.turns.WithLabelValues(label).Inc()
	r.turnDuration.WithLabelValues(label).Observe(elapsed.Seconds())
}

func (r *Recorder) Fallback(component string) {
	r.fallbacks.WithLabelValues(component).Inc()
}

func (r *Recorder) RetrievalGate(outcome string) {
	r.retrievalGate.WithLabelValues(outcome).Inc()
}

// Handler serves the exposition format for this recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
