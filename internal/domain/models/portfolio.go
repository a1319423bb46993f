package models

// Position is a holding as returned to clients. Current price and the derived
// totals are resolved from the catalog at read time.
type Position struct {
	Symbol          string  `json:"symbol"`
	Shares          float64 `json:"shares"`
	AveragePrice    float64 `json:"averagePrice"`
	CurrentPrice    float64 `json:"currentPrice"`
	TotalValue      float64 `json:"totalValue"`
	GainLoss        float64 `json:"gainLoss"`
	GainLossPercent float64 `json:"gainLossPercent"`
}

type PortfolioSummary struct {
	Positions            []Position `json:"positions"`
	TotalValue           float64    `json:"totalValue"`
	TotalGainLoss        float64    `json:"totalGainLoss"`
	TotalGainLossPercent float64    `json:"totalGainLossPercent"`
}
