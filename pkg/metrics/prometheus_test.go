package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordLookup("quote", "hit")
	r.RecordLookup("quote", "hit")
	r.RecordLookup("quote", "miss")
	r.RecordSeriesPoints("IBM", 10)
	r.RecordActivity("kafka", "quote")
	r.RecordError("pipeline_throttle")
	r.RecordLatency("activity_record", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.lookups.WithLabelValues("quote", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.lookups.WithLabelValues("quote", "miss")))
	assert.Equal(t, 10.0, testutil.ToFloat64(r.seriesPoints.WithLabelValues("IBM")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.activity.WithLabelValues("kafka", "quote")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.latency))
}

func TestRecorderSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
