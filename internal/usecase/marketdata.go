package usecase

import (
	"fmt"
	"strings"

	"MarketBoard/internal/domain/models"
	domrepo "MarketBoard/internal/domain/repository"
	domsvc "MarketBoard/internal/domain/service"
)

// DefaultSeriesDays is the generated series window; it yields DefaultSeriesDays+1 points.
const DefaultSeriesDays = 100

// Fixed analyst-style values reported by Overview.
const (
	overviewPE            = 18.5
	overviewPEG           = 1.2
	overviewDividendYield = 2.5
	overviewBeta          = 1.1
	overviewPriceToBook   = 3.2
	overviewProfitMargin  = 12.5
	overviewEmployees     = "50000"
)

var exchangeBySuffix = map[string]string{
	"LON": "LSE",
	"DEX": "XETR",
	"BSE": "BSE",
}

// MarketDataUseCase resolves quotes, overviews and daily series from the
// catalog and the series generator. All methods are safe for concurrent use.
type MarketDataUseCase struct {
	catalog    domrepo.Catalog
	gen        domsvc.SeriesGenerator
	metrics    domrepo.Metrics
	seriesDays int
}

type MarketDataOption func(*MarketDataUseCase)

// WithSeriesDays overrides the generated series window.
func WithSeriesDays(days int) MarketDataOption {
	return func(uc *MarketDataUseCase) {
		if days >= 0 {
			uc.seriesDays = days
		}
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m domrepo.Metrics) MarketDataOption {
	return func(uc *MarketDataUseCase) { uc.metrics = m }
}

func NewMarketDataUseCase(catalog domrepo.Catalog, gen domsvc.SeriesGenerator, opts ...MarketDataOption) *MarketDataUseCase {
	uc := &MarketDataUseCase{catalog: catalog, gen: gen, seriesDays: DefaultSeriesDays}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// Quote returns the catalog record for symbol, matched case-insensitively.
func (uc *MarketDataUseCase) Quote(symbol string) (models.Stock, bool) {
	s, ok := uc.catalog.Lookup(symbol)
	uc.recordLookup("quote", ok)
	return s, ok
}

// Overview projects the catalog record into an Overview.
func (uc *MarketDataUseCase) Overview(symbol string) (models.Overview, bool) {
	s, ok := uc.catalog.Lookup(symbol)
	uc.recordLookup("overview", ok)
	if !ok {
		return models.Overview{}, false
	}
	return models.Overview{
		Symbol:        s.Symbol,
		Name:          s.Name,
		Description:   fmt.Sprintf("%s is a leading company in the %s sector.", s.Name, s.Sector),
		Sector:        s.Sector,
		Industry:      s.Sector,
		MarketCap:     s.MarketCap,
		PE:            overviewPE,
		PEG:           overviewPEG,
		DividendYield: overviewDividendYield,
		EPS:           s.Price / overviewPE,
		Beta:          overviewBeta,
		High52Week:    s.High * 1.15,
		Low52Week:     s.Low * 0.85,
		PriceToBook:   overviewPriceToBook,
		ProfitMargin:  overviewProfitMargin,
		RevenueTTM:    s.MarketCap * 0.8,
		Employees:     overviewEmployees,
		Exchange:      ExchangeFor(s.Symbol),
	}, true
}

// DailySeries returns the fixed series for reserved symbols, a freshly generated
// series for other catalog symbols, and an empty (non-nil) series otherwise.
func (uc *MarketDataUseCase) DailySeries(symbol string) []models.TimeSeriesPoint {
	if pts, ok := uc.catalog.FixedSeries(symbol); ok {
		uc.recordLookup("series", true)
		uc.recordPoints(symbol, len(pts))
		return pts
	}
	s, ok := uc.catalog.Lookup(symbol)
	uc.recordLookup("series", ok)
	if !ok {
		return []models.TimeSeriesPoint{}
	}
	pts := uc.gen.Generate(s.Price, s.Volume, uc.seriesDays)
	uc.recordPoints(s.Symbol, len(pts))
	return pts
}

// DashboardStocks returns the whole catalog in declaration order.
func (uc *MarketDataUseCase) DashboardStocks() []models.Stock {
	return uc.catalog.All()
}

// ExchangeFor maps a symbol's suffix (after the last '.') to its exchange code.
// Bare symbols and unknown suffixes map to NYSE.
func ExchangeFor(symbol string) string {
	i := strings.LastIndexByte(symbol, '.')
	if i < 0 {
		return "NYSE"
	}
	if ex, ok := exchangeBySuffix[strings.ToUpper(symbol[i+1:])]; ok {
		return ex
	}
	return "NYSE"
}

func (uc *MarketDataUseCase) recordLookup(op string, hit bool) {
	if uc.metrics == nil {
		return
	}
	result := "hit"
	if !hit {
		result = "miss"
	}
	uc.metrics.RecordLookup(op, result)
}

func (uc *MarketDataUseCase) recordPoints(symbol string, n int) {
	if uc.metrics != nil {
		uc.metrics.RecordSeriesPoints(strings.ToUpper(symbol), n)
	}
}
