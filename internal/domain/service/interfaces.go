package service

import "MarketBoard/internal/domain/models"

// SeriesGenerator produces synthetic daily series around a base price and volume.
type SeriesGenerator interface {
	Generate(basePrice float64, baseVolume int64, days int) []models.TimeSeriesPoint
}

// FlagEvaluator answers whether a named feature is on.
type FlagEvaluator interface {
	IsOn(name string) bool
	Ready() bool
}
