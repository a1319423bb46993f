package timeseries

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"MarketBoard/internal/domain/models"
	"MarketBoard/pkg/util"
)

// DateLayout is the ISO calendar date used for series points.
const DateLayout = util.DateLayout

// Generator produces synthetic daily OHLC+volume series. Output is
// non-deterministic unless a seeded source is supplied via WithRand.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

type Option func(*Generator)

// WithRand sets the random source.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.rnd = r
		}
	}
}

// WithSeed seeds the random source.
func WithSeed(seed int64) Option {
	return func(g *Generator) { g.rnd = rand.New(rand.NewSource(seed)) }
}

// WithClock sets the function used to resolve "today".
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate returns days+1 points, oldest first, ending today (UTC).
// Close stays within ±2.5% of basePrice, open within ±0.5% of close,
// high/low up to 2% beyond the open/close range and volume in [0.5, 1.5) of baseVolume.
func (g *Generator) Generate(basePrice float64, baseVolume int64, days int) []models.TimeSeriesPoint {
	if days < 0 {
		return []models.TimeSeriesPoint{}
	}
	today := g.now().UTC()
	out := make([]models.TimeSeriesPoint, 0, days+1)

	g.mu.Lock()
	for i := days; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)

		variation := (g.rnd.Float64() - 0.5) * 0.05
		price := basePrice * (1 + variation)
		open := price * (1 + (g.rnd.Float64()-0.5)*0.01)
		high := math.Max(open, price) * (1 + g.rnd.Float64()*0.02)
		low := math.Min(open, price) * (1 - g.rnd.Float64()*0.02)
		volume := int64(math.Floor(float64(baseVolume) * (0.5 + g.rnd.Float64())))

		out = append(out, models.TimeSeriesPoint{
			Time:   util.FormatDate(date),
			Price:  Round2(price),
			Volume: volume,
			Open:   Round2(open),
			High:   Round2(high),
			Low:    Round2(low),
		})
	}
	g.mu.Unlock()

	SortAscending(out)
	return out
}

// SortAscending orders points by date, oldest first.
func SortAscending(points []models.TimeSeriesPoint) {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Time < points[j].Time })
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
