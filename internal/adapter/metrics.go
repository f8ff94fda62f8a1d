package adapter

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	m "github.com/mouse-blink/interpose/internal/model"
)

// MetricsRecorder receives engine events.
type MetricsRecorder interface {
	Registered(target string, mode m.Mode)
	Conflict(target string)
	Dispatched(target string)
	Failed(kind string)
}

// NopRecorder discards every event.
type NopRecorder struct{}

// Registered implements MetricsRecorder.
func (NopRecorder) Registered(string, m.Mode) {}

// Conflict implements MetricsRecorder.
func (NopRecorder) Conflict(string) {}

// Dispatched implements MetricsRecorder.
func (NopRecorder) Dispatched(string) {}

// Failed implements MetricsRecorder.
func (NopRecorder) Failed(string) {}

// PrometheusRecorder counts engine events in Prometheus counters.
type PrometheusRecorder struct {
	registrations *prometheus.CounterVec
	conflicts     *prometheus.CounterVec
	dispatches    *prometheus.CounterVec
	failures      *prometheus.CounterVec
}

// NewPrometheusRecorder creates the counters and registers them with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interpose",
			Name:      "registrations_total",
			Help:      "Behaviors registered, by target and mode.",
		}, []string{"target", "mode"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interpose",
			Name:      "chain_conflicts_total",
			Help:      "Overrides that shadowed an earlier override.",
		}, []string{"target"}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interpose",
			Name:      "dispatches_total",
			Help:      "Calls routed through an interposition chain.",
		}, []string{"target"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interpose",
			Name:      "failures_total",
			Help:      "Failed registrations and patches, by error kind.",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{r.registrations, r.conflicts, r.dispatches, r.failures} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	return r, nil
}

// Registered implements MetricsRecorder.
func (r *PrometheusRecorder) Registered(target string, mode m.Mode) {
	r.registrations.WithLabelValues(target, mode.String()).Inc()
}

// Conflict implements MetricsRecorder.
func (r *PrometheusRecorder) Conflict(target string) {
	r.conflicts.WithLabelValues(target).Inc()
}

// Dispatched implements MetricsRecorder.
func (r *PrometheusRecorder) Dispatched(target string) {
	r.dispatches.WithLabelValues(target).Inc()
}

// Failed implements MetricsRecorder.
func (r *PrometheusRecorder) Failed(kind string) {
	r.failures.WithLabelValues(kind).Inc()
}

// WriteMetrics writes every gathered family in the text exposition format.
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	return nil
}
