package repository

import (
	"strings"

	"MarketBoard/internal/domain/models"
	"MarketBoard/internal/domain/repository"
)

// StaticCatalog is the in-memory symbol catalog. It is built once and never mutated.
type StaticCatalog struct {
	stocks []models.Stock
	index  map[string]int
	fixed  map[string][]models.TimeSeriesPoint
}

// NewStaticCatalog builds the catalog from the bundled fixtures.
func NewStaticCatalog() *StaticCatalog {
	return newCatalog(defaultStocks, map[string][]models.TimeSeriesPoint{"IBM": ibmDailySeries})
}

func newCatalog(stocks []models.Stock, fixed map[string][]models.TimeSeriesPoint) *StaticCatalog {
	c := &StaticCatalog{
		stocks: make([]models.Stock, len(stocks)),
		index:  make(map[string]int, len(stocks)),
		fixed:  make(map[string][]models.TimeSeriesPoint, len(fixed)),
	}
	copy(c.stocks, stocks)
	for i, s := range c.stocks {
		c.index[strings.ToUpper(s.Symbol)] = i
	}
	for sym, pts := range fixed {
		c.fixed[strings.ToUpper(sym)] = pts
	}
	return c
}

var _ repository.Catalog = (*StaticCatalog)(nil)

// All returns every record in declaration order.
func (c *StaticCatalog) All() []models.Stock {
	out := make([]models.Stock, len(c.stocks))
	copy(out, c.stocks)
	return out
}

func (c *StaticCatalog) Lookup(symbol string) (models.Stock, bool) {
	i, ok := c.index[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return models.Stock{}, false
	}
	return c.stocks[i], true
}

// FixedSeries returns the hand-authored series for a reserved symbol, oldest first.
func (c *StaticCatalog) FixedSeries(symbol string) ([]models.TimeSeriesPoint, bool) {
	pts, ok := c.fixed[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return nil, false
	}
	out := make([]models.TimeSeriesPoint, len(pts))
	// fixtures are authored newest first
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out, true
}

var defaultStocks = []models.Stock{
	{
		Symbol: "IBM", Name: "International Business Machines Corp",
		Price: 312.18, Change: 9.56, ChangePercent: 3.16, Volume: 3895197,
		High: 312.33, Low: 299.96, Open: 302.62, PreviousClose: 302.62,
		MarketCap: 170_000_000_000, Sector: "Technology",
	},
	{
		Symbol: "TSCO.LON", Name: "Tesco PLC",
		Price: 285.67, Change: -3.21, ChangePercent: -1.11, Volume: 12345678,
		High: 289.50, Low: 284.20, Open: 288.10, PreviousClose: 288.88,
		MarketCap: 22_000_000_000, Sector: "Consumer Defensive",
	},
	{
		Symbol: "GPV.TRV", Name: "GPV Group ASA",
		Price: 125.34, Change: 1.89, ChangePercent: 1.53, Volume: 345678,
		High: 126.20, Low: 123.80, Open: 124.20, PreviousClose: 123.45,
		MarketCap: 1_500_000_000, Sector: "Technology",
	},
	{
		Symbol: "MBG.DEX", Name: "Mercedes-Benz Group AG",
		Price: 68.92, Change: 0.45, ChangePercent: 0.66, Volume: 4567890,
		High: 69.50, Low: 68.20, Open: 68.50, PreviousClose: 68.47,
		MarketCap: 73_000_000_000, Sector: "Consumer Cyclical",
	},
	{
		Symbol: "RELIANCE.BSE", Name: "Reliance Industries Ltd",
		Price: 2845.50, Change: 25.67, ChangePercent: 0.91, Volume: 2345678,
		High: 2860.20, Low: 2820.10, Open: 2830.00, PreviousClose: 2819.83,
		MarketCap: 1_920_000_000_000, Sector: "Energy",
	},
}

var ibmDailySeries = []models.TimeSeriesPoint{
	{Time: "2026-01-12", Price: 312.18, Volume: 3895197, Open: 302.62, High: 312.33, Low: 299.96},
	{Time: "2026-01-09", Price: 304.22, Volume: 2718828, Open: 302.61, High: 307.00, Low: 302.00},
	{Time: "2026-01-08", Price: 302.72, Volume: 3343273, Open: 295.00, High: 303.67, Low: 295.00},
	{Time: "2026-01-07", Price: 296.73, Volume: 2833274, Open: 302.50, High: 304.31, Low: 296.35},
	{Time: "2026-01-06", Price: 302.47, Volume: 4147315, Open: 295.00, High: 303.04, Low: 294.42},
	{Time: "2026-01-05", Price: 294.97, Volume: 4189960, Open: 295.77, High: 299.19, Low: 294.25},
	{Time: "2026-01-02", Price: 291.50, Volume: 4662804, Open: 297.56, High: 297.57, Low: 289.00},
	{Time: "2025-12-31", Price: 296.21, Volume: 3430133, Open: 301.76, High: 301.85, Low: 295.87},
	{Time: "2025-12-30", Price: 302.05, Volume: 1883651, Open: 306.15, High: 306.24, Low: 302.00},
	{Time: "2025-12-29", Price: 305.74, Volume: 4664711, Open: 304.65, High: 310.00, Low: 303.75},
}
