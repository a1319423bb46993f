package repository

import (
	"context"
	"time"

	"MarketBoard/internal/domain/models"
)

// Catalog is the read-only set of known symbols.
type Catalog interface {
	All() []models.Stock
	Lookup(symbol string) (models.Stock, bool)
	FixedSeries(symbol string) ([]models.TimeSeriesPoint, bool)
}

// SeriesSource provides daily series for analytics and window queries.
type SeriesSource interface {
	DailySeries(symbol string) []models.TimeSeriesPoint
}

type ActivityPublisher interface {
	Publish(ctx context.Context, a *models.Activity) error
	PublishBatch(ctx context.Context, events []*models.Activity) error
	Close() error
}

type ActivityStorage interface {
	Init(ctx context.Context) error // ensure tables
	Store(ctx context.Context, a *models.Activity) error
	StoreBatch(ctx context.Context, events []*models.Activity) error
	Popular(ctx context.Context, since time.Time, limit int) ([]models.PopularSymbol, error)
	Health(ctx context.Context) error
	Close() error
}

type Metrics interface {
	RecordLookup(op, result string)
	RecordSeriesPoints(symbol string, n int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordActivity(backend, kind string)
}
