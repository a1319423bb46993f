package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"MarketBoard/internal/domain/models"
	domrepo "MarketBoard/internal/domain/repository"
	"MarketBoard/pkg/util"
)

const (
	defaultSeriesLimit = 1000
	maxSeriesLimit     = 5000
)

// SeriesUseCase serves windowed daily series.
type SeriesUseCase struct {
	source domrepo.SeriesSource
}

func NewSeriesUseCase(source domrepo.SeriesSource) *SeriesUseCase {
	return &SeriesUseCase{source: source}
}

// GetSeriesParams bounds are inclusive calendar dates; zero values are open.
type GetSeriesParams struct {
	Symbol string
	From   time.Time
	To     time.Time
	Limit  int
}

type GetSeriesResult struct {
	Symbol string                   `json:"symbol"`
	From   string                   `json:"from,omitempty"`
	To     string                   `json:"to,omitempty"`
	Count  int                      `json:"count"`
	Points []models.TimeSeriesPoint `json:"points"`
}

func (uc *SeriesUseCase) GetSeries(ctx context.Context, p GetSeriesParams) (*GetSeriesResult, error) {
	if strings.TrimSpace(p.Symbol) == "" {
		return nil, fmt.Errorf("symbol required: %w", ErrInvalidInput)
	}
	if !p.From.IsZero() && !p.To.IsZero() && p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to: %w", ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Limit <= 0 {
		p.Limit = defaultSeriesLimit
	}
	if p.Limit > maxSeriesLimit {
		p.Limit = maxSeriesLimit
	}

	from, to := formatBound(p.From), formatBound(p.To)
	all := uc.source.DailySeries(p.Symbol)
	points := make([]models.TimeSeriesPoint, 0, len(all))
	for _, pt := range all {
		if from != "" && pt.Time < from {
			continue
		}
		if to != "" && pt.Time > to {
			continue
		}
		points = append(points, pt)
	}
	// keep the most recent points
	if len(points) > p.Limit {
		points = points[len(points)-p.Limit:]
	}

	return &GetSeriesResult{
		Symbol: util.NormalizeSymbol(p.Symbol),
		From:   from,
		To:     to,
		Count:  len(points),
		Points: points,
	}, nil
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return util.FormatDate(t)
}
