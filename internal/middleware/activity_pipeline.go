package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"MarketBoard/internal/domain/models"
	domrepo "MarketBoard/internal/domain/repository"
	"MarketBoard/pkg/util"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, a *models.Activity) error
}

// ActivityPipeline sits between the API handlers and the activity recorder.
// Submit never blocks; events are validated, throttled per symbol and type,
// buffered and delivered by a background worker with capped backoff.
type ActivityPipeline struct {
	proc    Proc
	metrics domrepo.Metrics
	maxRPS  int
	bufSize int
	retries int
	bufCh   chan *models.Activity
	stopCh  chan struct{}
	doneCh  chan struct{}

	mu       sync.Mutex
	started  bool
	stopped  bool
	lastSeen map[string]time.Time
	maxKeys  int

	now func() time.Time
}

type PipelineOption func(*ActivityPipeline)

// WithMaxRPS sets the max accepted events per second per symbol and type.
func WithMaxRPS(n int) PipelineOption {
	return func(p *ActivityPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the number of events held while the worker catches up.
func WithBufferSize(n int) PipelineOption {
	return func(p *ActivityPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithRetries sets how many times a failed event is retried before it is dropped.
func WithRetries(n int) PipelineOption {
	return func(p *ActivityPipeline) {
		if n >= 0 {
			p.retries = n
		}
	}
}

func NewActivityPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *ActivityPipeline {
	p := &ActivityPipeline{
		proc:     proc,
		metrics:  metrics,
		maxRPS:   20,
		bufSize:  1000,
		retries:  3,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
		maxKeys:  10000,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.Activity, p.bufSize)
	return p
}

// Start launches the delivery worker. A stopped pipeline cannot be restarted.
func (p *ActivityPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go p.run(ctx)
}

// Stop stops the worker and waits for it to exit. Buffered events are dropped.
// Stopping a pipeline that was never started only closes its intake.
func (p *ActivityPipeline) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	started := p.started
	p.mu.Unlock()
	if !started {
		return
	}
	close(p.stopCh)
	<-p.doneCh
}

// Track builds an event for a view of symbol and submits it.
func (p *ActivityPipeline) Track(kind, symbol string) bool {
	return p.Submit(&models.Activity{
		ID:     uuid.NewString(),
		Type:   kind,
		Symbol: util.NormalizeSymbol(symbol),
		At:     p.now().UTC(),
	})
}

// Submit validates, throttles and enqueues an event. It reports whether the
// event was accepted; a stopped pipeline accepts nothing.
func (p *ActivityPipeline) Submit(a *models.Activity) bool {
	p.mu.Lock()
	stopped := p.stopped
	p.mu.Unlock()
	if stopped {
		return false
	}
	if err := validateActivity(a); err != nil {
		p.recordError("pipeline_validate")
		return false
	}
	if !p.allow(a.Type+"|"+a.Symbol, p.now()) {
		p.recordError("pipeline_throttle")
		return false
	}
	select {
	case p.bufCh <- a:
		p.recordLatency("pipeline_buffer_depth", float64(len(p.bufCh)))
		return true
	default:
		p.recordError("pipeline_buffer_full")
		return false
	}
}

func (p *ActivityPipeline) run(ctx context.Context) {
	defer close(p.doneCh)
	backoff := 50 * time.Millisecond
	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case a := <-p.bufCh:
			for attempt := 0; ; attempt++ {
				start := time.Now()
				err := p.proc.Process(ctx, a)
				if err == nil {
					backoff = 50 * time.Millisecond
					p.recordLatency("pipeline_process", time.Since(start).Seconds())
					break
				}
				p.recordError("pipeline_process")
				if attempt >= p.retries {
					p.recordError("pipeline_drop")
					break
				}
				if backoff < 2*time.Second {
					backoff *= 2
				}
				select {
				case <-p.stopCh:
					return
				case <-ctx.Done():
					return
				case <-time.After(backoff):
				}
			}
		}
	}
}

func validateActivity(a *models.Activity) error {
	if a == nil {
		return fmt.Errorf("activity nil")
	}
	if a.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	switch a.Type {
	case models.ActivityQuote, models.ActivityOverview, models.ActivitySeries, models.ActivitySearch:
	default:
		return fmt.Errorf("unknown activity type %q", a.Type)
	}
	if a.At.IsZero() {
		return fmt.Errorf("timestamp missing")
	}
	return nil
}

func (p *ActivityPipeline) allow(key string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	interval := time.Second / time.Duration(p.maxRPS)
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.lastSeen[key]
	if !last.IsZero() && now.Sub(last) < interval {
		return false
	}
	if last.IsZero() && len(p.lastSeen) >= p.maxKeys {
		p.prune(now, interval)
	}
	p.lastSeen[key] = now
	return true
}

// prune drops keys whose throttle window has passed. If every key is still
// inside its window the table is reset; throttling is best effort.
func (p *ActivityPipeline) prune(now time.Time, interval time.Duration) {
	for k, t := range p.lastSeen {
		if now.Sub(t) >= interval {
			delete(p.lastSeen, k)
		}
	}
	if len(p.lastSeen) >= p.maxKeys {
		p.lastSeen = make(map[string]time.Time, p.maxKeys)
	}
}

func (p *ActivityPipeline) recordError(kind string) {
	if p.metrics != nil {
		p.metrics.RecordError(kind)
	}
}

func (p *ActivityPipeline) recordLatency(op string, v float64) {
	if p.metrics != nil {
		p.metrics.RecordLatency(op, v)
	}
}
