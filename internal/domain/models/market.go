package models

type MarketSummary struct {
	TotalMarketCap float64 `json:"totalMarketCap"`
	MarketChange   float64 `json:"marketChange"` // mean changePercent
	Volume         int64   `json:"volume"`
	ActiveStocks   int     `json:"activeStocks"`
}

type SectorWeight struct {
	Name      string  `json:"name"`
	Count     int     `json:"count"`
	MarketCap float64 `json:"marketCap"`
	Weight    float64 `json:"weight"` // percent of total market cap
}

// SymbolAnalytics holds statistics computed from a symbol's daily series.
type SymbolAnalytics struct {
	Symbol          string  `json:"symbol"`
	Points          int     `json:"points"`
	FirstClose      float64 `json:"firstClose"`
	LastClose       float64 `json:"lastClose"`
	ReturnPercent   float64 `json:"returnPercent"`
	Volatility      float64 `json:"volatility"` // annualized, fraction
	Trend           string  `json:"trend"`      // "bullish" | "bearish" | "neutral"
	VolatilityClass string  `json:"volatilityClass"`
}

type MarketAnalytics struct {
	Symbols []SymbolAnalytics `json:"symbols"`
	Sectors []SectorWeight    `json:"sectors"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type PopularSymbol struct {
	Symbol string `json:"symbol"`
	Views  uint64 `json:"views"`
}
