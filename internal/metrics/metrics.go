// Package metrics exposes Prometheus collectors for the auth flows.
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "authfront"

type Recorder struct {
	submissions *prometheus.CounterVec
	apiDuration *prometheus.HistogramVec
	guard       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flow_submissions_total",
			Help:      "Form submissions by flow and outcome.",
		}, []string{"flow", "outcome"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Latency of calls to the authentication API.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint", "result"}),
		guard: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_decisions_total",
			Help:      "Landing page activations by decision.",
		}, []string{"decision"}),
	}
	reg.MustRegister(r.submissions, r.apiDuration, r.guard)
	return r
}

func (r *Recorder) FlowOutcome(flow, outcome string) {
	if r == nil {
		return
	}
	r.submissions.WithLabelValues(flow, outcome).Inc()
}

func (r *Recorder) APIRequest(endpoint, result string, d time.Duration) {
	if r == nil {
		return
	}
	r.apiDuration.WithLabelValues(endpoint, result).Observe(d.Seconds())
}

func (r *Recorder) GuardDecision(decision string) {
	if r == nil {
		return
	}
	r.guard.WithLabelValues(decision).Inc()
}
