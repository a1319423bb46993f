package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalogSymbols = []string{"IBM", "TSCO.LON", "GPV.TRV", "MBG.DEX", "RELIANCE.BSE"}

func TestQuoteCaseInsensitive(t *testing.T) {
	uc := newTestMarketData()
	for _, sym := range catalogSymbols {
		s, ok := uc.Quote(strings.ToLower(sym))
		require.True(t, ok, sym)
		assert.Equal(t, sym, s.Symbol)
	}
	lower, _ := uc.Quote("ibm")
	upper, _ := uc.Quote("IBM")
	assert.Equal(t, upper, lower)
}

func TestQuoteAndOverviewNotFound(t *testing.T) {
	m := newFakeMetrics()
	uc := newTestMarketData(WithMetrics(m))
	_, ok := uc.Quote("NOSUCHSYMBOL")
	assert.False(t, ok)
	_, ok = uc.Overview("NOSUCHSYMBOL")
	assert.False(t, ok)
	assert.Equal(t, 1, m.lookups["quote:miss"])
	assert.Equal(t, 1, m.lookups["overview:miss"])
}

func TestOverviewDerivedFields(t *testing.T) {
	uc := newTestMarketData()
	for _, sym := range catalogSymbols {
		q, _ := uc.Quote(sym)
		o, ok := uc.Overview(sym)
		require.True(t, ok)
		assert.Equal(t, q.High*1.15, o.High52Week)
		assert.Equal(t, q.Low*0.85, o.Low52Week)
		assert.Equal(t, q.Price/18.5, o.EPS)
		assert.Equal(t, q.MarketCap*0.8, o.RevenueTTM)
		assert.Equal(t, q.Sector, o.Industry)
		assert.Equal(t, "50000", o.Employees)
	}

	o, _ := uc.Overview("mbg.dex")
	assert.Equal(t, "Mercedes-Benz Group AG is a leading company in the Consumer Cyclical sector.", o.Description)
	assert.Equal(t, "XETR", o.Exchange)
}

func TestExchangeFor(t *testing.T) {
	cases := map[string]string{
		"IBM":          "NYSE",
		"TSCO.LON":     "LSE",
		"MBG.DEX":      "XETR",
		"RELIANCE.BSE": "BSE",
		"GPV.TRV":      "NYSE",
		"odd.lon":      "LSE",
	}
	for sym, want := range cases {
		assert.Equal(t, want, ExchangeFor(sym), sym)
	}
}

func TestDailySeriesFixedIsStable(t *testing.T) {
	uc := newTestMarketData()
	a := uc.DailySeries("IBM")
	b := uc.DailySeries("ibm")
	require.Len(t, a, 10)
	assert.Equal(t, a, b)
	assert.Equal(t, "2025-12-29", a[0].Time)
}

func TestDailySeriesGenerated(t *testing.T) {
	m := newFakeMetrics()
	uc := newTestMarketData(WithMetrics(m))
	q, _ := uc.Quote("TSCO.LON")

	a := uc.DailySeries("tsco.lon")
	require.Len(t, a, 101)
	assert.Equal(t, "2026-01-12", a[100].Time)
	for i, p := range a {
		if i > 0 && a[i-1].Time >= p.Time {
			t.Fatalf("not ascending at %d", i)
		}
		assert.GreaterOrEqual(t, p.Price, 0.95*q.Price)
		assert.LessOrEqual(t, p.Price, 1.05*q.Price)
	}

	b := uc.DailySeries("TSCO.LON")
	assert.NotEqual(t, a, b, "generated series are redrawn on every call")
	assert.Equal(t, 202, m.points["TSCO.LON"])
}

func TestDailySeriesUnknownIsEmpty(t *testing.T) {
	uc := newTestMarketData()
	pts := uc.DailySeries("NOSUCHSYMBOL")
	assert.NotNil(t, pts)
	assert.Empty(t, pts)
}

func TestDailySeriesWindowOption(t *testing.T) {
	uc := newTestMarketData(WithSeriesDays(5))
	assert.Len(t, uc.DailySeries("MBG.DEX"), 6)
}

func TestDashboardStocks(t *testing.T) {
	uc := newTestMarketData()
	for i := 0; i < 2; i++ {
		got := uc.DashboardStocks()
		require.Len(t, got, len(catalogSymbols))
		for j, s := range got {
			assert.Equal(t, catalogSymbols[j], s.Symbol)
		}
	}
}
