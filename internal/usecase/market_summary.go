package usecase

import (
	"sort"

	"MarketBoard/internal/domain/models"
)

type MarketSummaryUseCase struct {
	source DashboardSource
}

func NewMarketSummaryUseCase(source DashboardSource) *MarketSummaryUseCase {
	return &MarketSummaryUseCase{source: source}
}

// Summary aggregates the dashboard list.
func (uc *MarketSummaryUseCase) Summary() models.MarketSummary {
	stocks := uc.source.DashboardStocks()
	var out models.MarketSummary
	var changeSum float64
	for _, s := range stocks {
		out.TotalMarketCap += s.MarketCap
		out.Volume += s.Volume
		changeSum += s.ChangePercent
	}
	out.ActiveStocks = len(stocks)
	if len(stocks) > 0 {
		out.MarketChange = changeSum / float64(len(stocks))
	}
	return out
}

// Sectors groups the dashboard list by sector, heaviest first.
func (uc *MarketSummaryUseCase) Sectors() []models.SectorWeight {
	return sectorWeights(uc.source.DashboardStocks())
}

func sectorWeights(stocks []models.Stock) []models.SectorWeight {
	bySector := map[string]*models.SectorWeight{}
	var total float64
	for _, s := range stocks {
		w, ok := bySector[s.Sector]
		if !ok {
			w = &models.SectorWeight{Name: s.Sector}
			bySector[s.Sector] = w
		}
		w.Count++
		w.MarketCap += s.MarketCap
		total += s.MarketCap
	}

	out := make([]models.SectorWeight, 0, len(bySector))
	for _, w := range bySector {
		if total > 0 {
			w.Weight = w.MarketCap / total * 100
		}
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Name < out[j].Name
	})
	return out
}
