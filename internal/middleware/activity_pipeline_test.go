package middleware

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketBoard/internal/domain/models"
)

type recordingProc struct {
	mu    sync.Mutex
	got   []*models.Activity
	fails int
}

func (r *recordingProc) Process(_ context.Context, a *models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fails > 0 {
		r.fails--
		return errors.New("downstream unavailable")
	}
	r.got = append(r.got, a)
	return nil
}

func (r *recordingProc) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

type nopMetrics struct{}

func (nopMetrics) RecordLookup(string, string)       {}
func (nopMetrics) RecordSeriesPoints(string, int)    {}
func (nopMetrics) RecordError(string)                {}
func (nopMetrics) RecordLatency(string, float64)     {}
func (nopMetrics) RecordActivity(string, string)     {}

func TestPipelineDelivers(t *testing.T) {
	proc := &recordingProc{}
	p := NewActivityPipeline(proc, nopMetrics{}, WithMaxRPS(1000))
	p.Start(context.Background())
	defer p.Stop()

	require.True(t, p.Track(models.ActivityQuote, "ibm"))
	require.True(t, p.Track(models.ActivityOverview, "IBM"))

	require.Eventually(t, func() bool { return proc.count() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "IBM", proc.got[0].Symbol)
	assert.NotEmpty(t, proc.got[0].ID)
}

func TestPipelineRejectsInvalid(t *testing.T) {
	p := NewActivityPipeline(&recordingProc{}, nil)
	assert.False(t, p.Submit(nil))
	assert.False(t, p.Track(models.ActivityQuote, ""))
	assert.False(t, p.Track("download", "IBM"))
}

func TestPipelineThrottlesPerSymbolAndType(t *testing.T) {
	now := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	p := NewActivityPipeline(&recordingProc{}, nopMetrics{}, WithMaxRPS(2))
	p.now = func() time.Time { return now }

	assert.True(t, p.Track(models.ActivityQuote, "IBM"))
	assert.False(t, p.Track(models.ActivityQuote, "IBM"))
	assert.True(t, p.Track(models.ActivitySeries, "IBM"))
	assert.True(t, p.Track(models.ActivityQuote, "MBG.DEX"))

	now = now.Add(600 * time.Millisecond)
	assert.True(t, p.Track(models.ActivityQuote, "IBM"))
}

func TestPipelineBufferFull(t *testing.T) {
	p := NewActivityPipeline(&recordingProc{}, nopMetrics{}, WithBufferSize(1), WithMaxRPS(1000))
	assert.True(t, p.Track(models.ActivityQuote, "IBM"))
	assert.False(t, p.Track(models.ActivityQuote, "MBG.DEX"), "worker not started, buffer holds one")
}

func TestPipelineRetriesThenDelivers(t *testing.T) {
	proc := &recordingProc{fails: 2}
	p := NewActivityPipeline(proc, nopMetrics{}, WithRetries(3))
	p.Start(context.Background())
	defer p.Stop()

	require.True(t, p.Track(models.ActivitySearch, "TSCO.LON"))
	require.Eventually(t, func() bool { return proc.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestPipelineStopIdempotent(t *testing.T) {
	p := NewActivityPipeline(&recordingProc{}, nopMetrics{})
	p.Stop()
	p.Start(context.Background())
	p.Stop()
	p.Stop()
	p.Start(context.Background())
}

func TestPipelineThrottleTableStaysBounded(t *testing.T) {
	now := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	p := NewActivityPipeline(&recordingProc{}, nopMetrics{}, WithMaxRPS(10), WithBufferSize(1))
	p.now = func() time.Time { return now }
	p.maxKeys = 100

	for i := 0; i < 5000; i++ {
		p.Track(models.ActivitySearch, fmt.Sprintf("q%d", i))
	}
	assert.LessOrEqual(t, len(p.lastSeen), 100)

	now = now.Add(time.Second)
	p.Track(models.ActivitySearch, "fresh")
	p.Track(models.ActivitySearch, "fresh-2")
	assert.LessOrEqual(t, len(p.lastSeen), 2, "expired keys are pruned")
}

func TestPipelineStopBeforeStartRejects(t *testing.T) {
	p := NewActivityPipeline(&recordingProc{}, nopMetrics{})
	p.Stop()
	assert.False(t, p.Track(models.ActivityQuote, "IBM"))

	p.Start(context.Background())
	assert.False(t, p.Track(models.ActivityQuote, "IBM"), "stopped pipeline does not restart")
	p.Stop()
}
