package usecase

import (
	"sync"
	"time"

	"MarketBoard/internal/repository"
	"MarketBoard/internal/services/timeseries"
)

type fakeMetrics struct {
	mu       sync.Mutex
	lookups  map[string]int
	points   map[string]int
	errors   map[string]int
	activity map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		lookups:  map[string]int{},
		points:   map[string]int{},
		errors:   map[string]int{},
		activity: map[string]int{},
	}
}

func (m *fakeMetrics) RecordLookup(op, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups[op+":"+result]++
}

func (m *fakeMetrics) RecordSeriesPoints(symbol string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points[symbol] += n
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *fakeMetrics) RecordLatency(string, float64) {}

func (m *fakeMetrics) RecordActivity(backend, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activity[backend+":"+kind]++
}

func testClock() time.Time { return time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC) }

func newTestMarketData(opts ...MarketDataOption) *MarketDataUseCase {
	gen := timeseries.NewGenerator(timeseries.WithSeed(1), timeseries.WithClock(testClock))
	return NewMarketDataUseCase(repository.NewStaticCatalog(), gen, opts...)
}

// staticFlags is a fixed flag evaluator.
type staticFlags map[string]bool

func (f staticFlags) IsOn(name string) bool { return f[name] }
func (f staticFlags) Ready() bool           { return true }
