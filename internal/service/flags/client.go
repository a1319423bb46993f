package flags

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"MarketBoard/internal/domain/models"
	"MarketBoard/internal/domain/service"
	flagmetrics "MarketBoard/internal/service/metrics"
	"MarketBoard/pkg/cache"
	xhttp "MarketBoard/pkg/http"
	applogger "MarketBoard/pkg/logger"
)

var ErrNoClientKey = errors.New("flags: client key is not configured")

// Option configures Client.
type Option func(*Client)

// WithHTTPClient sets the client used to fetch the payload.
func WithHTTPClient(hc *xhttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCache keeps the last good payload in svc for ttl.
func WithCache(svc cache.Service, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = svc
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithAttributes sets the attributes rule conditions are matched against.
func WithAttributes(attrs map[string]interface{}) Option {
	return func(c *Client) { c.attrs = attrs }
}

// WithSchedule sets the cron spec (with seconds) for periodic refresh.
func WithSchedule(spec string) Option {
	return func(c *Client) { c.schedule = spec }
}

// WithTimeout bounds each scheduled refresh.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Client fetches and evaluates remote feature flags. It reports ready after
// the first load attempt, successful or not.
type Client struct {
	apiHost   string
	clientKey string
	http      *xhttp.Client
	cache     cache.Service
	cacheTTL  time.Duration
	attrs     map[string]interface{}
	log       *applogger.Logger
	schedule  string
	timeout   time.Duration

	mu       sync.RWMutex
	ready    bool
	loaded   bool
	features map[string]bool

	subMu   sync.Mutex
	subs    map[int]func(models.FlagSnapshot)
	nextSub int

	cron *cron.Cron
}

// New creates a flag client for the given API host and client key.
func New(apiHost, clientKey string, opts ...Option) *Client {
	c := &Client{
		apiHost:   strings.TrimRight(apiHost, "/"),
		clientKey: clientKey,
		cacheTTL:  24 * time.Hour,
		log:       applogger.Nop(),
		schedule:  "0 */5 * * * *",
		timeout:   5 * time.Second,
		features:  map[string]bool{},
		subs:      map[int]func(models.FlagSnapshot){},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = xhttp.NewClient(xhttp.WithTimeout(c.timeout))
	}
	return c
}

var _ service.FlagEvaluator = (*Client)(nil)

// Load fetches the payload and applies it. On failure the last cached
// payload is applied if there is one; the client is ready either way and
// the fetch error is returned.
func (c *Client) Load(ctx context.Context) error {
	start := time.Now()
	body, err := c.fetch(ctx)
	flagmetrics.FlagLoadLatency.Observe(time.Since(start).Seconds())

	if err == nil {
		var p payload
		if p, err = parsePayload(body); err == nil {
			flagmetrics.FlagLoads.WithLabelValues("remote", "ok").Inc()
			c.store(ctx, body)
			c.apply(p)
			return nil
		}
	}
	flagmetrics.FlagLoads.WithLabelValues("remote", "error").Inc()
	c.log.Warn("feature flag load failed", applogger.String("api_host", c.apiHost), applogger.Error(err))

	if p, ok := c.fromCache(ctx); ok {
		flagmetrics.FlagLoads.WithLabelValues("cache", "ok").Inc()
		c.apply(p)
	} else {
		c.markReady()
	}
	return fmt.Errorf("load flags: %w", err)
}

// IsOn reports whether name is on. Until a payload has been applied it
// reports the flag's declared default, which is off for most flags.
func (c *Client) IsOn(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return models.FlagDefaults[name]
	}
	return c.features[name]
}

// Ready reports whether a load attempt has completed.
func (c *Client) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Snapshot evaluates every known flag.
func (c *Client) Snapshot() models.FlagSnapshot {
	snap := models.FlagSnapshot{Ready: c.Ready(), Features: make(map[string]bool, len(models.KnownFlags))}
	for _, name := range models.KnownFlags {
		snap.Features[name] = c.IsOn(name)
	}
	return snap
}

// Subscribe registers fn to run after a load changes the flag set.
// The returned func removes the subscription.
func (c *Client) Subscribe(fn func(models.FlagSnapshot)) func() {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

// Start loads once and then refreshes on the configured schedule.
func (c *Client) Start(ctx context.Context) error {
	_ = c.Load(ctx)

	cr := cron.New(cron.WithSeconds())
	if _, err := cr.AddFunc(c.schedule, func() {
		rctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		_ = c.Load(rctx)
	}); err != nil {
		return fmt.Errorf("flags schedule %q: %w", c.schedule, err)
	}
	cr.Start()
	c.cron = cr
	c.log.Info("feature flag refresh scheduled", applogger.String("schedule", c.schedule))
	return nil
}

// Stop halts the refresh schedule and waits for a running refresh.
func (c *Client) Stop(ctx context.Context) error {
	if c.cron == nil {
		return nil
	}
	select {
	case <-c.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	if c.clientKey == "" {
		return nil, ErrNoClientKey
	}
	var body []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.apiHost + "/api/features/" + c.clientKey,
	}, &body)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) cacheKey() string {
	return cache.GenerateKey("flags", cache.HashKey(c.apiHost+"|"+c.clientKey))
}

func (c *Client) store(ctx context.Context, body []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, c.cacheKey(), body, c.cacheTTL); err != nil {
		c.log.Warn("feature flag cache write failed", applogger.Error(err))
	}
}

func (c *Client) fromCache(ctx context.Context) (payload, bool) {
	if c.cache == nil {
		return payload{}, false
	}
	var body []byte
	if err := c.cache.Get(ctx, c.cacheKey(), &body); err != nil {
		return payload{}, false
	}
	p, err := parsePayload(body)
	if err != nil {
		return payload{}, false
	}
	return p, true
}

func (c *Client) markReady() {
	c.mu.Lock()
	first := !c.ready
	c.ready = true
	c.mu.Unlock()
	if first {
		c.notify()
	}
}

func (c *Client) apply(p payload) {
	next := evaluate(p, c.attrs)

	c.mu.Lock()
	changed := !c.loaded || !c.ready || !sameFlags(c.features, next)
	c.features = next
	c.loaded = true
	c.ready = true
	c.mu.Unlock()

	for _, name := range models.KnownFlags {
		v := 0.0
		if next[name] {
			v = 1
		}
		flagmetrics.FlagsOn.WithLabelValues(name).Set(v)
	}
	if changed {
		c.notify()
	}
}

func (c *Client) notify() {
	snap := c.Snapshot()
	c.subMu.Lock()
	fns := make([]func(models.FlagSnapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

func sameFlags(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
