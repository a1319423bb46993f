package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogDeclarationOrder(t *testing.T) {
	c := NewStaticCatalog()
	var syms []string
	for _, s := range c.All() {
		syms = append(syms, s.Symbol)
	}
	assert.Equal(t, []string{"IBM", "TSCO.LON", "GPV.TRV", "MBG.DEX", "RELIANCE.BSE"}, syms)
}

func TestCatalogAllReturnsCopy(t *testing.T) {
	c := NewStaticCatalog()
	all := c.All()
	all[0].Price = 0
	s, ok := c.Lookup("IBM")
	require.True(t, ok)
	assert.Equal(t, 312.18, s.Price)
}

func TestCatalogLookupCaseInsensitive(t *testing.T) {
	c := NewStaticCatalog()
	for _, sym := range []string{"tsco.lon", "Tsco.Lon", " TSCO.LON "} {
		s, ok := c.Lookup(sym)
		require.True(t, ok, sym)
		assert.Equal(t, "TSCO.LON", s.Symbol)
		assert.Equal(t, -3.21, s.Change)
	}
	_, ok := c.Lookup("NOSUCHSYMBOL")
	assert.False(t, ok)
}

func TestCatalogFixedSeries(t *testing.T) {
	c := NewStaticCatalog()
	pts, ok := c.FixedSeries("ibm")
	require.True(t, ok)
	require.Len(t, pts, 10)
	assert.Equal(t, "2025-12-29", pts[0].Time)
	assert.Equal(t, "2026-01-12", pts[9].Time)
	assert.Equal(t, 312.18, pts[9].Price)

	pts[0].Price = 1
	again, _ := c.FixedSeries("IBM")
	assert.Equal(t, 305.74, again[0].Price)

	_, ok = c.FixedSeries("MBG.DEX")
	assert.False(t, ok)
}
