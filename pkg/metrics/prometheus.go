package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketboard"

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	lookups      *prometheus.CounterVec
	seriesPoints *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	activity     *prometheus.CounterVec
}

// New registers the recorder's collectors with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		lookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lookups_total",
				Help:      "Catalog lookups by operation and result",
			},
			[]string{"operation", "result"},
		),
		seriesPoints: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "series_points_total",
				Help:      "Daily series points served per symbol",
			},
			[]string{"symbol"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of operations in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		activity: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "activity_events_total",
				Help:      "View events recorded by backend and type",
			},
			[]string{"backend", "type"},
		),
	}
}

func (r *Recorder) RecordLookup(op, result string) {
	r.lookups.WithLabelValues(op, result).Inc()
}

func (r *Recorder) RecordSeriesPoints(symbol string, n int) {
	r.seriesPoints.WithLabelValues(symbol).Add(float64(n))
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func (r *Recorder) RecordActivity(backend, kind string) {
	r.activity.WithLabelValues(backend, kind).Inc()
}
