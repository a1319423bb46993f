package timeseries

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 1, 12, 15, 30, 0, 0, time.UTC)
}

func TestGenerateLengthAndOrder(t *testing.T) {
	g := NewGenerator(WithSeed(42), WithClock(fixedClock))
	pts := g.Generate(312.18, 3895197, 100)
	require.Len(t, pts, 101)

	assert.Equal(t, "2025-10-04", pts[0].Time)
	assert.Equal(t, "2026-01-12", pts[len(pts)-1].Time)
	for i := 1; i < len(pts); i++ {
		if pts[i-1].Time >= pts[i].Time {
			t.Fatalf("dates not strictly ascending at %d: %s >= %s", i, pts[i-1].Time, pts[i].Time)
		}
	}
}

func TestGenerateBounds(t *testing.T) {
	const basePrice = 125.34
	const baseVolume int64 = 345678
	g := NewGenerator(WithSeed(7), WithClock(fixedClock))

	for _, p := range g.Generate(basePrice, baseVolume, 250) {
		if p.Low > p.Open || p.Low > p.Price {
			t.Fatalf("low above open/close: %+v", p)
		}
		if p.High < p.Open || p.High < p.Price {
			t.Fatalf("high below open/close: %+v", p)
		}
		if p.Price < 0.95*basePrice || p.Price > 1.05*basePrice {
			t.Fatalf("price out of range: %v", p.Price)
		}
		if p.Volume < baseVolume/2 || float64(p.Volume) >= 1.5*float64(baseVolume) {
			t.Fatalf("volume out of range: %v", p.Volume)
		}
	}
}

func TestGenerateSeededIsRepeatable(t *testing.T) {
	a := NewGenerator(WithRand(rand.New(rand.NewSource(99))), WithClock(fixedClock)).Generate(68.92, 4567890, 30)
	b := NewGenerator(WithRand(rand.New(rand.NewSource(99))), WithClock(fixedClock)).Generate(68.92, 4567890, 30)
	assert.Equal(t, a, b)

	c := NewGenerator(WithSeed(100), WithClock(fixedClock)).Generate(68.92, 4567890, 30)
	assert.NotEqual(t, a, c)
}

func TestGenerateEdgeDays(t *testing.T) {
	g := NewGenerator(WithSeed(1), WithClock(fixedClock))

	one := g.Generate(10, 100, 0)
	require.Len(t, one, 1)
	assert.Equal(t, "2026-01-12", one[0].Time)

	neg := g.Generate(10, 100, -1)
	assert.NotNil(t, neg)
	assert.Empty(t, neg)
}

func TestGenerateUsesUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	clock := func() time.Time { return time.Date(2026, 1, 13, 5, 0, 0, 0, loc) }
	pts := NewGenerator(WithSeed(3), WithClock(clock)).Generate(10, 100, 0)
	assert.Equal(t, "2026-01-12", pts[0].Time)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 312.18, Round2(312.1799999))
	assert.Equal(t, 1.01, Round2(1.005000001))
	assert.Equal(t, 0.0, Round2(0.001))
}
