package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MarketBoard/internal/domain/models"
	domrepo "MarketBoard/internal/domain/repository"
	domsvc "MarketBoard/internal/domain/service"
	"MarketBoard/internal/services/features"
)

const (
	volatilityWindow = 20
	trendThreshold   = 1.0 // percent
	popularWindow    = 7 * 24 * time.Hour
	defaultPopular   = 10
	maxPopular       = 100
)

// AnalyticsUseCase computes per-symbol statistics from daily series.
type AnalyticsUseCase struct {
	catalog domrepo.Catalog
	series  domrepo.SeriesSource
	flags   domsvc.FlagEvaluator
	store   domrepo.ActivityStorage // nil when activity is not stored
	timeout time.Duration
}

func NewAnalyticsUseCase(catalog domrepo.Catalog, series domrepo.SeriesSource, flags domsvc.FlagEvaluator, store domrepo.ActivityStorage) *AnalyticsUseCase {
	return &AnalyticsUseCase{catalog: catalog, series: series, flags: flags, store: store, timeout: 10 * time.Second}
}

// Analyze computes analytics for every catalog symbol concurrently.
func (uc *AnalyticsUseCase) Analyze(ctx context.Context) (*models.MarketAnalytics, error) {
	if uc.flags == nil || !uc.flags.IsOn(models.FlagAdvancedFeatures) {
		return nil, fmt.Errorf("analytics: %w", ErrFeatureDisabled)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	stocks := uc.catalog.All()
	res := &models.MarketAnalytics{
		Symbols: make([]models.SymbolAnalytics, len(stocks)),
		Sectors: sectorWeights(stocks),
		Errors:  map[string]string{},
	}

	type item struct {
		idx int
		val models.SymbolAnalytics
		err error
	}
	ch := make(chan item, len(stocks))
	var wg sync.WaitGroup
	for i, s := range stocks {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			v, err := uc.analyzeSymbol(ctx, symbol)
			ch <- item{i, v, err}
		}(i, s.Symbol)
	}
	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			res.Errors[stocks[it.idx].Symbol] = it.err.Error()
		}
		res.Symbols[it.idx] = it.val
	}
	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res, nil
}

func (uc *AnalyticsUseCase) analyzeSymbol(ctx context.Context, symbol string) (models.SymbolAnalytics, error) {
	out := models.SymbolAnalytics{Symbol: symbol}
	if err := ctx.Err(); err != nil {
		return out, err
	}
	pts := uc.series.DailySeries(symbol)
	out.Points = len(pts)
	if len(pts) < 2 {
		return out, fmt.Errorf("insufficient series for %s", symbol)
	}

	rets := features.ComputeLogReturns(pts)
	out.FirstClose = pts[0].Price
	out.LastClose = pts[len(pts)-1].Price
	out.ReturnPercent = features.PercentChange(pts)
	out.Volatility = features.RealizedVolatility(rets, min(volatilityWindow, len(rets)), features.TradingDaysPerYear)
	out.Trend = features.Trend(out.ReturnPercent, trendThreshold)
	out.VolatilityClass = features.VolatilityClass(out.Volatility)
	return out, nil
}

// Popular returns the most viewed symbols over the last week.
// It is empty when activity is not stored.
func (uc *AnalyticsUseCase) Popular(ctx context.Context, limit int) ([]models.PopularSymbol, error) {
	if uc.store == nil {
		return []models.PopularSymbol{}, nil
	}
	if limit <= 0 {
		limit = defaultPopular
	}
	if limit > maxPopular {
		limit = maxPopular
	}
	out, err := uc.store.Popular(ctx, time.Now().Add(-popularWindow), limit)
	if err != nil {
		return nil, fmt.Errorf("popular symbols: %w", err)
	}
	if out == nil {
		out = []models.PopularSymbol{}
	}
	return out, nil
}
