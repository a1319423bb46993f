package usecase

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"MarketBoard/internal/domain/models"
)

// DashboardSource supplies the dashboard list.
type DashboardSource interface {
	DashboardStocks() []models.Stock
}

// DashboardLoader fetches the dashboard list at most once per lifetime.
// Concurrent Load calls share one in-flight fetch.
type DashboardLoader struct {
	source DashboardSource
	sf     singleflight.Group

	mu      sync.RWMutex
	stocks  []models.Stock
	loaded  bool
	loading bool
	fetches int
}

func NewDashboardLoader(source DashboardSource) *DashboardLoader {
	return &DashboardLoader{source: source}
}

// Load returns the dashboard list, fetching it on first use.
func (l *DashboardLoader) Load(ctx context.Context) ([]models.Stock, error) {
	l.mu.RLock()
	if l.loaded {
		out := copyStocks(l.stocks)
		l.mu.RUnlock()
		return out, nil
	}
	l.mu.RUnlock()

	ch := l.sf.DoChan("dashboard", func() (interface{}, error) {
		l.mu.Lock()
		if l.loaded {
			l.mu.Unlock()
			return nil, nil
		}
		l.loading = true
		l.mu.Unlock()

		stocks := l.source.DashboardStocks()

		l.mu.Lock()
		l.stocks = stocks
		l.loaded = true
		l.loading = false
		l.fetches++
		l.mu.Unlock()
		return nil, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
	}
	return l.Stocks(), nil
}

// Stocks returns the loaded list, or nil before the first load completes.
func (l *DashboardLoader) Stocks() []models.Stock {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.loaded {
		return nil
	}
	return copyStocks(l.stocks)
}

func (l *DashboardLoader) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

func (l *DashboardLoader) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// Get finds a loaded stock by symbol, case-insensitively.
func (l *DashboardLoader) Get(symbol string) (models.Stock, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, s := range l.stocks {
		if strings.EqualFold(s.Symbol, symbol) {
			return s, true
		}
	}
	return models.Stock{}, false
}

func copyStocks(in []models.Stock) []models.Stock {
	out := make([]models.Stock, len(in))
	copy(out, in)
	return out
}
