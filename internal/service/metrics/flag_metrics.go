package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	FlagLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketboard",
			Subsystem: "flags",
			Name:      "loads_total",
			Help:      "Feature flag payload loads by source and result",
		},
		[]string{"source", "result"},
	)

	FlagLoadLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "marketboard",
			Subsystem: "flags",
			Name:      "load_seconds",
			Help:      "Latency of remote feature flag fetches",
			Buckets:   prometheus.DefBuckets,
		},
	)

	FlagsOn = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "marketboard",
			Subsystem: "flags",
			Name:      "on",
			Help:      "1 when the named flag is on",
		},
		[]string{"flag"},
	)
)

// Register adds the flag collectors to reg once per process.
func Register(reg prometheus.Registerer) {
	once.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		reg.MustRegister(FlagLoads, FlagLoadLatency, FlagsOn)
	})
}
